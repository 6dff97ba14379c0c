package main

import "github.com/teaflash/teaflash/cmd"

func main() {
	cmd.Execute()
}
