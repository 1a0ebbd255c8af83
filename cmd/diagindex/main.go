package main

import "diagindex/cmd/diagindex/cmd"

func main() {
	cmd.Execute()
}
