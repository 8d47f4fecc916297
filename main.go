// Copyright (c) 2025 Vaultteller Authors
// Vaultteller - console banking ledger & loan engine
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Vaultteller.
//
// Usage:
//
//	go run . [command]
//	./vaultteller [command]
//
// See --help for the available commands.
package main

import (
	"os"

	"github.com/vaultteller/vaultteller/internal/cli"
)

// version is set at build time using -ldflags, e.g.:
// go build -ldflags "-X main.version=1.2.3"
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
