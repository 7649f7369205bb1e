// Package pathutil expands shell-style references in configured paths.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUndefinedVariable is returned when a path references an unset environment variable.
var ErrUndefinedVariable = errors.New("undefined environment variable")

// Expand resolves $VAR and ${VAR} references and a leading "~" or "~/" in p.
//
// Unlike os.ExpandEnv, a reference to an unset variable is an error rather
// than an empty string, so a typo cannot silently turn "$DATA/mempool" into
// "/mempool". The result is not made absolute.
func Expand(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", nil
	}

	var missing []string
	p = os.Expand(p, func(name string) string {
		v, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrUndefinedVariable, strings.Join(missing, ", "))
	}

	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if len(p) == 1 {
			p = home
		} else if p[1] == '/' || p[1] == '\\' {
			p = filepath.Join(home, p[2:])
		}
	}

	return p, nil
}
