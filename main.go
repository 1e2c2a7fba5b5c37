package main

import "github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/cmd"

func main() {
	cmd.Execute()
}
