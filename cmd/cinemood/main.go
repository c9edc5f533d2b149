package main

import (
	"os"

	"github.com/wonny/cinemood/cmd/cinemood/commands"
)

// main is the entry point for the cinemood CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/cinemood [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
