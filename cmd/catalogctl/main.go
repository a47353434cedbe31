// Command catalogctl runs the periodical catalog offline: it plays the demo
// scenario, validates seed files and prints every derived query of a seeded
// catalog.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
