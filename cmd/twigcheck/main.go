package main

import (
	"os"

	"github.com/abiiranathan/twigcheck/cli"
)

// main is the CLI entry point for the template usage audit.
func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
