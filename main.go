package main

import "chainreaction/cmd"

func main() {
	cmd.Execute()
}
