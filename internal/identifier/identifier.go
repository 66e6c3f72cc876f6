package identifier

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/mr-tron/base58"
)

const base36 = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ShortCodeLength is the standard length of guest short codes
const ShortCodeLength = 5

// maxAttemptsPerLength bounds the generate-check loop at each candidate length
const maxAttemptsPerLength = 10

// ErrKeyspaceExhausted is returned when no free identifier could be found
// within the allowed attempts, even after widening the candidate length.
var ErrKeyspaceExhausted = errors.New("identifier keyspace exhausted")

// ShortCode returns n random uppercase base-36 characters
func ShortCode(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36))))
		if err != nil {
			return "", fmt.Errorf("failed to draw random character: %w", err)
		}
		b.WriteByte(base36[idx.Int64()])
	}
	return b.String(), nil
}

// SlugSuffix returns n random lowercase base-36 characters
func SlugSuffix(n int) (string, error) {
	code, err := ShortCode(n)
	if err != nil {
		return "", err
	}
	return strings.ToLower(code), nil
}

// Slugify lowercases the base string and strips everything that is not a
// letter or a digit
func Slugify(base string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EventSlug builds a slug candidate from the two party family names, falling
// back to the event title when both are blank. The result always carries a
// random suffix; when the base is blank the slug is the suffix alone.
func EventSlug(nameOne, nameTwo, title string) (string, error) {
	suffix, err := SlugSuffix(ShortCodeLength)
	if err != nil {
		return "", err
	}

	base := Slugify(nameOne) + Slugify(nameTwo)
	if base == "" {
		base = Slugify(title)
	}
	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}

// Token returns an opaque URL-safe access token: 16 random bytes, base58.
// Used for the legacy single-segment invitation links.
func Token() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base58.Encode(raw), nil
}

// Allocate runs the bounded generate-check protocol: it draws candidates of
// the given length until taken reports a free one. After maxAttemptsPerLength
// collisions it widens the candidate by one character and tries again; if that
// round also fails it returns ErrKeyspaceExhausted. The check is an
// optimization only — the store's unique index is the race-safety net.
func Allocate(generate func(int) (string, error), length int, taken func(string) (bool, error)) (string, error) {
	for _, n := range []int{length, length + 1} {
		for attempt := 0; attempt < maxAttemptsPerLength; attempt++ {
			candidate, err := generate(n)
			if err != nil {
				return "", err
			}
			exists, err := taken(candidate)
			if err != nil {
				return "", err
			}
			if !exists {
				return candidate, nil
			}
		}
	}
	return "", ErrKeyspaceExhausted
}
