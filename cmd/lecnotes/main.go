package main

import "github.com/forPelevin/lecnotes/internal/cli"

func main() {
	cli.Main()
}
