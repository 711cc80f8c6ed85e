package emergency

// FailureReason classifies a terminal dispatch failure. The set is closed:
// every failed dispatch maps to exactly one of these values.
type FailureReason int

const (
	// ReasonNone means the dispatch did not fail.
	ReasonNone FailureReason = iota
	// ReasonNoGuardianRegistered means no guardian contact is stored for the
	// user. The user must register one before retrying; this is not transient.
	ReasonNoGuardianRegistered
	// ReasonResolutionFailed means the profile store read itself failed.
	ReasonResolutionFailed
	// ReasonDeliveryAborted means the gateway call was cancelled mid-flight,
	// typically because the delivery time budget expired.
	ReasonDeliveryAborted
	// ReasonDeliveryFailed means any other transport or gateway error.
	ReasonDeliveryFailed
)

// String returns a stable identifier used in logs and metrics labels.
func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNoGuardianRegistered:
		return "no_guardian_registered"
	case ReasonResolutionFailed:
		return "resolution_failed"
	case ReasonDeliveryAborted:
		return "delivery_aborted"
	case ReasonDeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}

// Message returns the localized, user-facing text for the failure.
// The strings are the product's Arabic UI copy and are surfaced verbatim
// through the caller contract.
func (r FailureReason) Message() string {
	switch r {
	case ReasonNoGuardianRegistered:
		return "لا يوجد Chat ID محفوظ. اذهب إلى الإعدادات واحفظه أولًا."
	case ReasonResolutionFailed:
		return "تعذر قراءة الملف الشخصي. حاول مجددًا."
	case ReasonDeliveryAborted:
		return "انقطع الاتصال أثناء الإرسال. حاول مجددًا."
	case ReasonDeliveryFailed:
		return "تعذر إرسال رسالة الطوارئ."
	default:
		return ""
	}
}

// Result is the terminal outcome of one dispatch. It is the only value
// returned to the caller; no error escapes the orchestrator boundary.
type Result struct {
	// Reason is ReasonNone on success, otherwise the failure class.
	Reason FailureReason
}

// Succeeded returns the successful dispatch result.
func Succeeded() Result {
	return Result{Reason: ReasonNone}
}

// Failed returns a result carrying the provided failure reason.
func Failed(reason FailureReason) Result {
	return Result{Reason: reason}
}

// OK reports whether the dispatch succeeded.
func (r Result) OK() bool {
	return r.Reason == ReasonNone
}
