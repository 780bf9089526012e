// Package randutil generates random alphanumeric keys for passwords,
// activation, reset and persistent-token data.
package randutil

import (
	"crypto/rand"
	"fmt"
	"io"
)

// KeyLength is the length of every generated key.
const KeyLength = 20

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// maxUnbiased is the largest byte value that maps uniformly onto alphanumeric.
const maxUnbiased = 256 - 256%len(alphanumeric)

// GeneratePassword generates a password.
func GeneratePassword() (string, error) { return generate(rand.Reader) }

// GenerateActivationKey generates an activation key.
func GenerateActivationKey() (string, error) { return generate(rand.Reader) }

// GenerateResetKey generates a reset key.
func GenerateResetKey() (string, error) { return generate(rand.Reader) }

// GenerateSeriesData generates a unique series for persistent tokens.
func GenerateSeriesData() (string, error) { return generate(rand.Reader) }

// GenerateTokenData generates token data for persistent tokens.
func GenerateTokenData() (string, error) { return generate(rand.Reader) }

// generate draws KeyLength characters from src, rejecting bytes that would
// bias the distribution.
func generate(src io.Reader) (string, error) {
	out := make([]byte, 0, KeyLength)
	buf := make([]byte, KeyLength*2)

	for len(out) < KeyLength {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxUnbiased {
				continue
			}
			out = append(out, alphanumeric[int(b)%len(alphanumeric)])
			if len(out) == KeyLength {
				break
			}
		}
	}

	return string(out), nil
}
