package main

import "github.com/aalvaropc/munson/internal/cli"

func main() {
	cli.Execute()
}
