// Package env captures build-time environment into an explicit struct. The
// process environment and optional .env files are read once at startup;
// nothing downstream of this package reads os.Getenv.
package env

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/wolfeidau/bundlekit/internal/buildcfg"
)

// Environment holds the values the build derives from its surroundings.
type Environment struct {
	// Mode parsed from MODE, defaulting to development.
	Mode buildcfg.Mode
	// Port parsed from PORT, defaulting to buildcfg.DefaultPort.
	Port int
	// Vars are the key/value pairs loaded from .env files. Only these are
	// injected into the bundle; the wider process environment is not.
	Vars map[string]string
}

// Load reads the given .env files (missing files are skipped) and the MODE
// and PORT variables. File values do not override variables already set in
// the process environment, matching dotenv convention.
func Load(files ...string) (Environment, error) {
	vars := map[string]string{}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		loaded, err := godotenv.Read(file)
		if err != nil {
			return Environment{}, fmt.Errorf("failed to read env file %s: %w", file, err)
		}
		for k, v := range loaded {
			if _, exists := vars[k]; !exists {
				vars[k] = v
			}
		}
	}

	mode, err := buildcfg.ParseMode(lookup("MODE", vars))
	if err != nil {
		return Environment{}, err
	}

	port := buildcfg.DefaultPort
	if raw := lookup("PORT", vars); raw != "" {
		port, err = strconv.Atoi(raw)
		if err != nil {
			return Environment{}, fmt.Errorf("invalid PORT %q: %w", raw, err)
		}
	}

	return Environment{Mode: mode, Port: port, Vars: vars}, nil
}

// lookup prefers the process environment over file-loaded values.
func lookup(key string, vars map[string]string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return vars[key]
}

// Define builds the compile-time replacement map injected into the bundle.
// Every loaded variable becomes a process.env.KEY string literal; NODE_ENV
// always reflects the mode.
func (e Environment) Define() map[string]string {
	define := make(map[string]string, len(e.Vars)+1)
	for k, v := range e.Vars {
		define["process.env."+k] = strconv.Quote(v)
	}
	define["process.env.NODE_ENV"] = strconv.Quote(string(e.Mode))
	return define
}

// Keys returns the loaded variable names sorted, for logging.
func (e Environment) Keys() []string {
	keys := make([]string, 0, len(e.Vars))
	for k := range e.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
