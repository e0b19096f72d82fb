package main

import "github.com/lepinkainen/barky/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
