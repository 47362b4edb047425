package main

import "github.com/mhollis/wardkeep/cmd/wardkeep/cmd"

func main() {
	cmd.Execute()
}
