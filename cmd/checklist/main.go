// Package main provides the checklist command.
package main

import "github.com/mesh-intelligence/checklist/internal/cli"

func main() {
	cli.Execute()
}
