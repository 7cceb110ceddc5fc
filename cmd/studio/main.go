// Command studio is the terminal client for the lesson studio: it drives the
// client state core against a remote backend or an in-process one.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
