// Command gramwatch authenticates a Telegram account, follows its update
// stream, and prints every event as one canonical JSON record per line.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gramwatch: %v\n", err)
		os.Exit(1)
	}
}
