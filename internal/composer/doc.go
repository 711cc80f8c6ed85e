// Package composer renders the guardian alert text.
//
// Compose is a pure function: given the reporter name, note inputs and the
// collected context signals it deterministically produces the HTML message
// markup understood by the messaging gateway. Absent signals render as an
// explicit "unavailable" value so the guardian knows they were attempted.
package composer
