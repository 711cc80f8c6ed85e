package main

import "github.com/auralink/guardian-alert/cmd/guardian-server/cmd"

func main() {
	cmd.Execute()
}
