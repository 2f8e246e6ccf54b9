package main

import "ethical-pricing/cmd"

func main() {
	cmd.Execute()
}
