// Package config provides typed access to the environment variables that
// control processor behavior beyond the command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Variable describes a single environment variable: what it does, its
// default, and how raw values are validated.
type Variable struct {
	Name        string
	Description string
	Default     string
	HasDefault  bool
	Validate    func(string) error
}

// Describe returns help text for the variable, including its default.
func (v Variable) Describe() string {
	desc := v.Description
	if v.HasDefault {
		desc = fmt.Sprintf("%s (Default: %q)", desc, v.Default)
	}
	return fmt.Sprintf("%s\n  %s", v.Name, desc)
}

var registry = map[string]Variable{}

func register(v Variable) {
	registry[v.Name] = v
}

// LoadEnv loads environment variables from a .env file, if present
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}
}

// Raw returns the raw value of a registered variable, falling back to the
// default. Values that fail the variable's validator are rejected.
func Raw(name string) (string, error) {
	v, ok := registry[name]
	if !ok {
		return "", fmt.Errorf("unregistered env variable %s", name)
	}
	raw, set := os.LookupEnv(name)
	if !set {
		if !v.HasDefault {
			return "", fmt.Errorf("env variable %s is not set and has no default", name)
		}
		raw = v.Default
	}
	if v.Validate != nil {
		if err := v.Validate(raw); err != nil {
			return "", fmt.Errorf("%s set to invalid value %q: %w", name, raw, err)
		}
	}
	return raw, nil
}

// IsSet reports whether the variable is present in the environment.
func IsSet(name string) bool {
	_, set := os.LookupEnv(name)
	return set
}

// String returns the variable's value, or its default when unset or invalid.
func String(name string) string {
	raw, err := Raw(name)
	if err != nil {
		log.Warn().Err(err).Str("variable", name).Msg("falling back to default")
		return registry[name].Default
	}
	return raw
}

// Int returns the variable's value parsed as an integer.
func Int(name string) int {
	n, _ := strconv.Atoi(String(name))
	return n
}

// Float returns the variable's value parsed as a float.
func Float(name string) float64 {
	f, _ := strconv.ParseFloat(String(name), 64)
	return f
}

// Bool returns the variable's value parsed as a boolean ("true"/"1").
func Bool(name string) bool {
	val := strings.ToLower(String(name))
	return val == "true" || val == "1"
}

// Describe returns help text for every registered variable, sorted by name.
func Describe() string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString(registry[name].Describe())
		b.WriteString("\n")
	}
	return b.String()
}

func oneOf(allowed ...string) func(string) error {
	return func(raw string) error {
		for _, a := range allowed {
			if raw == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}

func isInt(raw string) error {
	_, err := strconv.Atoi(raw)
	return err
}

func isBool(raw string) error {
	switch strings.ToLower(raw) {
	case "true", "false", "0", "1":
		return nil
	}
	return fmt.Errorf("must be a boolean")
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}

func init() {
	register(Variable{
		Name:        "OCRD_PROFILE",
		Description: "Whether to gather runtime statistics (comma-separated): CPU, RSS, PSS.",
		Default:     "",
		HasDefault:  true,
		Validate: func(raw string) error {
			for _, t := range strings.Split(raw, ",") {
				if t != "" && t != "CPU" && t != "RSS" && t != "PSS" {
					return fmt.Errorf("unknown profile kind %q", t)
				}
			}
			return nil
		},
	})
	register(Variable{
		Name:        "OCRD_PROFILE_FILE",
		Description: "If set, the runtime trace is written to this file for later peruse.",
	})
	register(Variable{
		Name:        "OCRD_DOWNLOAD_RETRIES",
		Description: "Number of times to retry failed attempts for downloads of resources or workspace files.",
		Default:     "0",
		HasDefault:  true,
		Validate:    isInt,
	})
	register(Variable{
		Name:        "OCRD_MISSING_INPUT",
		Description: "How to deal with missing input files during processing: SKIP or ABORT.",
		Default:     "SKIP",
		HasDefault:  true,
		Validate:    oneOf("SKIP", "ABORT"),
	})
	register(Variable{
		Name:        "OCRD_MISSING_OUTPUT",
		Description: "How to deal with missing output files during processing: SKIP, COPY or ABORT.",
		Default:     "SKIP",
		HasDefault:  true,
		Validate:    oneOf("SKIP", "COPY", "ABORT"),
	})
	register(Variable{
		Name:        "OCRD_EXISTING_OUTPUT",
		Description: "How to deal with already existing output files during processing: SKIP, OVERWRITE or ABORT.",
		Default:     "SKIP",
		HasDefault:  true,
		Validate:    oneOf("SKIP", "OVERWRITE", "ABORT"),
	})
	register(Variable{
		Name:        "OCRD_MAX_MISSING_OUTPUTS",
		Description: "Maximal rate of skipped pages among all processed pages before aborting (decimal fraction, ignored if negative).",
		Default:     "0.1",
		HasDefault:  true,
	})
	register(Variable{
		Name:        "OCRD_LOGGING_DEBUG",
		Description: "Print information about the logging setup to STDERR.",
		Default:     "false",
		HasDefault:  true,
		Validate:    isBool,
	})
	register(Variable{
		Name:        "HOME",
		Description: "Fallback for unset XDG variables.",
		Default:     homeDir(),
		HasDefault:  true,
	})
	register(Variable{
		Name:        "XDG_DATA_HOME",
		Description: "Directory to look for ./ocrd-resources/* (resource data location).",
		Default:     filepath.Join(homeDir(), ".local", "share"),
		HasDefault:  true,
	})
	register(Variable{
		Name:        "XDG_CONFIG_HOME",
		Description: "Directory to look for ./ocrd/resources.yml (user resource database).",
		Default:     filepath.Join(homeDir(), ".config"),
		HasDefault:  true,
	})
}
