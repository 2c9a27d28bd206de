// ./main.go
package main

import (
	"github.com/xkilldash9x/usher/cmd"
)

// main is the entry point for the usher CLI. All command-line parsing,
// configuration and execution happens in the cmd package.
func main() {
	cmd.Execute()
}
