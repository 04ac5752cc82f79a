package main

import "github.com/oshokin/p1-alert/cmd/p1-alert/cmd"

func main() {
	cmd.Execute()
}
