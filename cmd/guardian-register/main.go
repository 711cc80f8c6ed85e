package main

import "github.com/auralink/guardian-alert/cmd/guardian-register/cmd"

func main() {
	cmd.Execute()
}
