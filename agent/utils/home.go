package utils

import (
	"os"
	"os/user"
	"path/filepath"
)

// DataDirName is the wallet's directory under the home directory.
const DataDirName = ".findy-wallet"

// HomeDir returns the current user's home directory.
func HomeDir() string {
	if v := os.Getenv("HOME"); v != "" {
		return v
	}
	currentUser, err := user.Current()
	if err != nil {
		panic(err)
	}
	return currentUser.HomeDir
}

// DefaultEnclavePath is the sealed box file when none is configured.
func DefaultEnclavePath() string {
	return filepath.Join(HomeDir(), DataDirName, "enclave.bolt")
}
