package main

import "tanya/cmd"

func main() {
	cmd.Execute()
}
