package envvar

import (
	"os"
	"strings"
)

// EnvSource implements the Source interface for process environment variables.
// Values are read at lookup time, not snapshotted, so changes to the
// environment between calls are observable.
type EnvSource struct{}

// Lookup retrieves an environment variable by name.
func (EnvSource) Lookup(key string) (string, bool, error) {
	val, found := os.LookupEnv(key)
	return val, found, nil
}

// Name returns the source name.
func (EnvSource) Name() string {
	return "Environment"
}

// Environ returns the full process environment as a map.
func (EnvSource) Environ() map[string]string {
	environ := os.Environ()
	m := make(map[string]string, len(environ))
	for _, pair := range environ {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}
