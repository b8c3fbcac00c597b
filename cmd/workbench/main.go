// Command workbench is the CV builder, notes, to-do and calculator CLI.
package main

import "github.com/mesh-intelligence/workbench/internal/cli"

func main() {
	cli.Execute()
}
