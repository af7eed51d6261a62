package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// ParseFlags parses args into fs and returns the positional arguments.
// Errors are rewritten into the CLI's "unknown flag" / "flag needs an
// argument" wording.
func ParseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		if errors.Is(err, flag.ErrHelp) {
			return nil, fmt.Errorf("unknown flag: %s", helpFlag(args))
		}

		// "flag needs an argument: -title"
		if strings.HasPrefix(errStr, "flag needs an argument:") {
			return nil, errors.New(errStr)
		}

		// "flag provided but not defined: -x"
		if name, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
			return nil, fmt.Errorf("unknown flag: %s", name)
		}

		return nil, err
	}

	positional := fs.Args()
	if n := len(args) - len(positional); n > 0 && args[n-1] == "--" {
		return positional, nil
	}
	// Parsing stops at the first positional argument; anything that still
	// looks like a flag was given too late.
	for _, a := range positional {
		if strings.HasPrefix(a, "-") && a != "-" {
			return nil, fmt.Errorf("flag after arguments: %s (use -- before arguments that start with -)", a)
		}
	}
	return positional, nil
}

func helpFlag(args []string) string {
	for _, a := range args {
		switch a {
		case "-h", "--h", "-help", "--help":
			return a
		}
	}
	return "-h"
}
