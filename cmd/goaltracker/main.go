package main

import "github.com/andrescamacho/goaltracker-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
