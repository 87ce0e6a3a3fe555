package main

import (
	"dealscope/internal/cli"
)

func main() {
	cli.Execute()
}
