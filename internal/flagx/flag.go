// Package flagx helps several independent loaders share one os.Args without
// tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// Pick returns the subset of args that belong to the named flags, keeping
// their values. Both "-f value" and "-f=value" spellings are recognized; a
// value is only consumed when the next argument does not start with '-'.
// The result is never nil.
func Pick(args []string, names ...string) []string {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}

	picked := []string{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, found := strings.Cut(arg, "="); found {
			if known[name] {
				picked = append(picked, arg)
			}
			continue
		}

		if !known[arg] {
			continue
		}
		picked = append(picked, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			picked = append(picked, args[i])
		}
	}
	return picked
}

// ConfigPath returns the JSON config file given with -c or -config, or "".
func ConfigPath() string {
	return lookupString([]string{"-c", "-config"}, "c", "config")
}

// EnvFilePath returns the dotenv file given with -e or -env, or "".
func EnvFilePath() string {
	return lookupString([]string{"-e", "-env"}, "e", "env")
}

func lookupString(spellings []string, short, long string) string {
	var value string

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.StringVar(&value, long, "", "path to "+long+" file")
	fs.StringVar(&value, short, "", "path to "+long+" file (short)")
	_ = fs.Parse(Pick(os.Args[1:], spellings...))

	return value
}
