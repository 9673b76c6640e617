package main

import "github.com/theirongolddev/tripdeck/cmd"

func main() {
	cmd.Execute()
}
