//go:build !windows

package util

import (
	"os"

	"github.com/pkg/errors"
)

// Homedir returns the home directory of the current user, as
// told by $HOME
func Homedir() (string, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return "", errors.New("error: Environment variable HOME not set")
	}

	return home, nil
}
