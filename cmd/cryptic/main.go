// cmd/cryptic/main.go
package main

import (
	cmd "github.com/mwiater/cryptic/internal/cli"
)

// main starts the cryptic CLI by delegating to the cobra root command.
func main() {
	cmd.Execute()
}
