package main

import "os"

// buildDir is the base directory baked in at link time:
//
//	go build -ldflags "-X main.buildDir=/path/to/build" .
var buildDir = ""

const envBaseDir = "SEEKCHECK_DIR"

// resolveBaseDir picks where the test file goes: the --dir flag, then
// $SEEKCHECK_DIR, then the link-time buildDir, then the system temp dir.
func resolveBaseDir(flagDir string, getenv func(string) string) string {
	if flagDir != "" {
		return flagDir
	}
	if d := getenv(envBaseDir); d != "" {
		return d
	}
	if buildDir != "" {
		return buildDir
	}
	return os.TempDir()
}
