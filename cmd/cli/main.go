// Package main is the entry point for the infacat CLI binary.
package main

import (
	"os"

	cli "infacat/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
