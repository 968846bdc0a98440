// Package main is the single-binary entrypoint for NutriBot.
package main

import "github.com/nutribot-app/nutribot/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
