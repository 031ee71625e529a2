package main

import "pyperfcheck/cmd"

func main() {
	cmd.Execute()
}
