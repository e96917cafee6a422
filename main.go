package main

import "github.com/theirongolddev/churnboard/cmd"

func main() {
	cmd.Execute()
}
