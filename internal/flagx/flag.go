// Package flagx helps several configuration loaders share os.Args without
// tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args that belong to allowedFlags, keeping
// flag values that follow them.
//
// Supported formats:
//
//	-c conf.json        flag and value as separate arguments
//	--config=conf.json  flag and value joined with '='
//
// A token starting with '-' is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := allowed[name]; keep {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, keep := allowed[arg]; !keep {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFileFlag returns the JSON config path given with -c or -config, or
// "" when neither is present. Other arguments are ignored.
func ConfigFileFlag() string {
	return stringFlag([]string{"-c", "-config"}, "config", "c", "path to JSON config file")
}

// EnvFileFlag returns the dotenv path given with -env, defaulting to ".env".
func EnvFileFlag() string {
	path := stringFlag([]string{"-env"}, "env", "", "path to .env file")
	if path == "" {
		return ".env"
	}
	return path
}

func stringFlag(allowed []string, long, short, usage string) string {
	var value string
	args := FilterArgs(os.Args[1:], allowed)
	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	fs.StringVar(&value, long, "", usage)
	if short != "" {
		fs.StringVar(&value, short, "", usage+" (short)")
	}
	_ = fs.Parse(args)
	return value
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
