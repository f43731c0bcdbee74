package main

import (
	"os"

	"github.com/custodia-labs/granola-sync/internal/adapters/driving/cli"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
