// Package config handles tap2bin.yaml loading.
package config

import (
	"os"
	"regexp"
)

// Group 1 is the variable name, group 2 the optional fallback.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv substitutes ${NAME} and ${NAME:-fallback} in a tap2bin.yaml
// document. An empty or unset NAME yields the fallback, or "" without one,
// so "output_dir: ${TAPS_OUT:-./bin}" works on machines that never set it.
func ExpandEnv(doc string) string {
	return envVarPattern.ReplaceAllStringFunc(doc, func(ref string) string {
		m := envVarPattern.FindStringSubmatch(ref)
		if v := os.Getenv(m[1]); v != "" {
			return v
		}
		return m[2]
	})
}
