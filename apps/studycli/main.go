// Command studycli drives the study app from a terminal: it signs in, then runs one action
// against an in-process backend.
package main

import (
	"fmt"
	"os"
)

func main() {
	c := &cli{open: openApp}
	err := newRootCmd(c).Execute()
	c.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
