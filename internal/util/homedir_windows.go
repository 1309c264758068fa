package util

import (
	"os"
	"os/user"

	"github.com/pkg/errors"
)

// Homedir returns the profile directory of the current user
func Homedir() (string, error) {
	if dir := os.Getenv("USERPROFILE"); dir != "" {
		return dir, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "failed to look up current user")
	}
	return u.HomeDir, nil
}
