package main

import (
	"fmt"
	"os"
)

// main wires high-level dependencies and keeps command lifecycles small.
// Business logic lives in the internal packages. A run that produced a
// report exits zero whatever the report says; only unusable configuration
// is a process failure.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "seedforge:", err)
		os.Exit(1)
	}
}
