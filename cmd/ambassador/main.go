package main

import (
	"fmt"
	"os"

	"github.com/example/ambassador/internal/cli"
	"github.com/example/ambassador/internal/wire"
)

func main() {
	err := cli.RootCmd().Execute()
	if closeErr := wire.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
