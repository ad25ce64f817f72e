//go:build !unix

package main

import (
	"fmt"
	"os"
)

func statSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat(%s): %w", path, err)
	}
	return fi.Size(), nil
}
