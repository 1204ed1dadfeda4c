// Package main provides the smalltalk CLI entry point.
package main

import (
	"os"

	"github.com/kpumuk/smalltalk/internal/cmd"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
	BuiltBy = ""
)

func main() {
	os.Exit(cmd.Execute(Version, Commit, Date, BuiltBy))
}
