package main

import "github.com/kozaktomas/group-memory/cmd"

func main() {
	cmd.Execute()
}
