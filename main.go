package main

import "github.com/notargets/gomesh2d/cmd"

func main() {
	cmd.Execute()
}
