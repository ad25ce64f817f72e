package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseSize reads a non-negative byte count with an optional k/m/g/b suffix.
func parseSize(s string) (int64, error) {
	ss := strings.TrimSpace(strings.ToLower(s))
	if ss == "" {
		return 0, failure(kindInvalidInput, "parse size", errors.New("empty size"))
	}
	mult := int64(1)
	switch {
	case strings.HasSuffix(ss, "k"):
		mult = 1024
		ss = strings.TrimSuffix(ss, "k")
	case strings.HasSuffix(ss, "m"):
		mult = 1024 * 1024
		ss = strings.TrimSuffix(ss, "m")
	case strings.HasSuffix(ss, "g"):
		mult = 1024 * 1024 * 1024
		ss = strings.TrimSuffix(ss, "g")
	case strings.HasSuffix(ss, "b"):
		ss = strings.TrimSuffix(ss, "b")
	}
	v, err := strconv.ParseInt(ss, 10, 64)
	if err != nil {
		return 0, failure(kindInvalidInput, "parse size", fmt.Errorf("invalid size %q", s))
	}
	if v < 0 {
		return 0, failure(kindInvalidInput, "parse size", fmt.Errorf("negative size %q", s))
	}
	if v > math.MaxInt64/mult {
		return 0, failure(kindInvalidInput, "parse size", fmt.Errorf("size %q overflows", s))
	}
	return v * mult, nil
}

func human(b int64) string {
	if b >= 1024*1024 {
		return fmt.Sprintf("%dM", b/(1024*1024))
	}
	if b >= 1024 {
		return fmt.Sprintf("%dK", b/1024)
	}
	return fmt.Sprintf("%dB", b)
}
