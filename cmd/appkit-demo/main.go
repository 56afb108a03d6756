// Command appkit-demo is a small notes service assembled from appkit
// components. It shows how subcommands pick which components start.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(context.Background(), os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
