package config

import (
	"fmt"
	"os"
)

// Require returns the value of the env var or an error naming it when unset.
func Require(envName string) (string, error) {
	v := os.Getenv(envName)
	if v == "" {
		return "", fmt.Errorf("missing required env %s", envName)
	}
	return v, nil
}
