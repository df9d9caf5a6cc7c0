// Package ordernumber derives human-readable, strictly increasing order numbers
// of the form <PREFIX><4 digits>, starting at SHA0001.
package ordernumber

import (
	"fmt"
	"strconv"
	"strings"

	"smarthome-mall/internal/model"
)

const (
	// First is the number issued when no order exists yet.
	First = "SHA0001"

	maxCounter = 9999
	firstCount = "0001"
)

// Next returns the order number following previous. An empty previous means no
// order has been issued yet. Unparseable input fails with model.ErrMalformedSequence
// and must never be treated as a reset.
func Next(previous string) (string, error) {
	if previous == "" {
		return First, nil
	}

	prefix, number, err := Parse(previous)
	if err != nil {
		return "", err
	}

	if number < maxCounter {
		return fmt.Sprintf("%s%04d", prefix, number+1), nil
	}

	next, err := rollPrefix(prefix)
	if err != nil {
		return "", fmt.Errorf("cannot roll over %q: %w", previous, err)
	}
	if !isUpper(next) {
		return "", fmt.Errorf("cannot roll over %q: %w", previous, model.ErrMalformedSequence)
	}

	// The nominal rule for long prefixes shortens them, which would issue a
	// number the store already sorts below previous.
	candidate := next + firstCount
	if cmp, err := Compare(previous, candidate); err != nil || cmp >= 0 {
		return "", fmt.Errorf("rolling over %q gives %q, which does not sort after it: %w",
			previous, candidate, model.ErrMalformedSequence)
	}
	return candidate, nil
}

// Parse splits an order number into its leading uppercase prefix and trailing counter.
// A missing counter parses as 0.
func Parse(s string) (string, int, error) {
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 {
		return "", 0, model.ErrMalformedSequence
	}
	prefix := s[:i]

	j := len(s)
	for j > i && s[j-1] >= '0' && s[j-1] <= '9' {
		j--
	}
	digits := s[j:]
	if digits == "" {
		return prefix, 0, nil
	}

	number, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, model.ErrMalformedSequence
	}
	return prefix, number, nil
}

// rollPrefix advances the prefix once the counter is exhausted. The rules are
// length specific and intentionally not base-26.
func rollPrefix(p string) (string, error) {
	switch len(p) {
	case 3:
		switch {
		case p == "SHZ":
			return "SHAA", nil
		case p[2] == 'Z' && p[1] == 'Z':
			return "SHAAA", nil
		case p[2] == 'Z':
			return string([]byte{p[0], nextChar(p[1]), 'A'}), nil
		default:
			return string([]byte{p[0], p[1], nextChar(p[2])}), nil
		}
	case 4:
		switch {
		case p == "SHZZ":
			return "SHAAA", nil
		case p[3] == 'Z' && p[2] == 'Z':
			return string([]byte{p[0], nextChar(p[1]), 'A', 'A'}), nil
		case p[3] == 'Z':
			return string([]byte{p[0], p[1], nextChar(p[2]), 'A'}), nil
		default:
			return string([]byte{p[0], p[1], p[2], nextChar(p[3])}), nil
		}
	default:
		if len(p) < 3 || p[2] == 'Z' {
			return "", model.ErrMalformedSequence
		}
		return "SH" + string(nextChar(p[2])), nil
	}
}

func nextChar(c byte) byte {
	return c + 1
}

func isUpper(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// Compare orders two order numbers by prefix length, then prefix, then counter.
// It returns -1, 0 or +1.
func Compare(a, b string) (int, error) {
	pa, na, err := Parse(a)
	if err != nil {
		return 0, err
	}
	pb, nb, err := Parse(b)
	if err != nil {
		return 0, err
	}

	switch {
	case len(pa) != len(pb):
		return sign(len(pa) - len(pb)), nil
	case pa != pb:
		return strings.Compare(pa, pb), nil
	default:
		return sign(na - nb), nil
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
