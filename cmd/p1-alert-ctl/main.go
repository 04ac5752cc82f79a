package main

import "github.com/oshokin/p1-alert/cmd/p1-alert-ctl/cmd"

func main() {
	cmd.Execute()
}
