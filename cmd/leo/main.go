package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cc := newCommandContext()
	err := buildRootCommand(cc).Execute()
	// PersistentPostRunE is skipped when a command fails.
	if cerr := cc.close(); err == nil {
		err = cerr
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
