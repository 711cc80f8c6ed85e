package main

import "github.com/auralink/guardian-alert/cmd/guardian-send/cmd"

func main() {
	cmd.Execute()
}
