package main

import "github.com/rubiojr/c2js/cmd"

var version = "v0.1.0"

func main() {
	cmd.Execute(version)
}
