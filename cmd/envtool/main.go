// Command envtool reads and writes files through the composite environment
// over a local directory or an object store bucket.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
