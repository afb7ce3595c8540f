package main

import "github.com/decaylee13/Anatomy-View/cmd"

func main() {
	cmd.Execute()
}
