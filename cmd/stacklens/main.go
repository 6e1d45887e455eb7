package main

import (
	"stacklens/internal/cli"
)

func main() {
	cli.Execute()
}
