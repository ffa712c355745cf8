package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidOrderNumber = errors.New("invalid order number")

const orderNumberWidth = 3

// FormatOrderNumber renders n zero-padded to at least three digits.
func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("%0*d", orderNumberWidth, n)
}

// ParseOrderNumber accepts a decimal string such as "007" or "7".
func ParseOrderNumber(s string) (int64, error) {
	if s == "" || len(s) > 18 {
		return 0, ErrInvalidOrderNumber
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidOrderNumber
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, ErrInvalidOrderNumber
	}
	return n, nil
}
