// Package accesscode issues the numeric door codes handed to guests at check-in.
package accesscode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

const (
	Length = 6

	minCode = 100000
	maxCode = 999999
)

var span = big.NewInt(maxCode - minCode + 1)

// Generate returns a uniformly random code between 100000 and 999999.
func Generate() (string, error) {
	num, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("failed to generate access code: %w", err)
	}

	return strconv.FormatInt(num.Int64()+minCode, 10), nil
}

// Valid reports whether code has the shape Generate produces.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}

	value, err := strconv.Atoi(code)

	return err == nil && value >= minCode && value <= maxCode
}
