package gadgets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownAction = errors.New("unknown gadget action")
	ErrMissingArg    = errors.New("missing gadget argument")
	ErrInvalidArg    = errors.New("invalid gadget argument")
	ErrCommandFailed = errors.New("gadget command failed")
)

const (
	exitUsage    = 64
	exitNotFound = 69
	exitFailure  = 1
	exitInactive = 3
)

func argString(args map[string]string, key string) string {
	if args == nil {
		return ""
	}
	return strings.TrimSpace(args[key])
}

func requireArg(args map[string]string, key string) (string, error) {
	v := argString(args, key)
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingArg, key)
	}
	return v, nil
}

func argBool(args map[string]string, key string, def bool) (bool, error) {
	raw := argString(args, key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", ErrInvalidArg, key, raw)
	}
	return v, nil
}

func argInt(args map[string]string, key string, def int) (int, error) {
	raw := argString(args, key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidArg, key, raw)
	}
	return v, nil
}

func okResult(stdout string) Result {
	return Result{Status: "ok", Stdout: []byte(stdout), ExitCode: 0}
}

func errorResult(err error, exitCode int) Result {
	if exitCode == 0 {
		exitCode = exitFailure
	}
	return Result{
		Status:   "error",
		Stderr:   []byte(err.Error() + "\n"),
		ExitCode: exitCode,
	}
}

func unknownAction(act string) (Result, error) {
	return errorResult(fmt.Errorf("unknown action: %s", act), exitUsage), ErrUnknownAction
}
