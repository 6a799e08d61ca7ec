// Package main provides the opentts command-line tool.
//
// Usage:
//
//	opentts [flags] <command> [args]
//
// Commands:
//
//	clone    - Clone a voice from a reference clip
//	say      - Synthesize speech with a saved voice
//	voices   - Manage locally saved voices
//	remote   - Inspect the backend's voice registry
//	health   - Probe backend availability
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.opentts/ and saved voices in
//	~/.opentts/voices/. Use 'opentts config' commands to manage contexts.
//
// Exit codes are stable; see 'opentts --help'.
package main

import (
	"fmt"
	"os"

	"github.com/opentts/opentts/cmd/opentts/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(commands.ExitCode(err))
	}
}
