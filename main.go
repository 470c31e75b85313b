// The main package for the ghtrends executable.
package main

import (
	"github.com/ymaeda/gh-trending-tracker/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
