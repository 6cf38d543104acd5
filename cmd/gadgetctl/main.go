package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/danmuck/dbgadgets/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	code, err := newApp(os.Stdout, os.Stderr).execute(os.Args[1:])
	if err != nil && !errors.As(err, new(exitError)) {
		fmt.Fprintf(os.Stderr, "gadgetctl: %v\n", err)
	}
	os.Exit(code)
}

// exitError carries a non-zero exit code for results already reported on stdout.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return 1
}
