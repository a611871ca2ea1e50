// Package version implements the minimum-version check performed against the
// external ocrd tool before a processor is allowed to run.
package version

import (
	"strconv"
	"strings"

	"ocrdkit/internal/errors"
)

// Required is the minimum ocrd version this library is known to work with.
const Required = "3.0.0"

// Satisfies reports whether current is at least minimum.
//
// The first three dot-separated numeric components of each string are
// compared as (major, minor, patch); whatever follows the numeric run is a
// pre-release suffix, with the empty suffix treated as "0". Components are
// compared numerically and short-circuit on the first strict inequality.
// Equal triples fall back to plain lexicographic comparison of the suffixes,
// so "b1" sorts after "a1" but "9" sorts after "10". This matches the
// historical behavior processors rely on and is intentionally not SemVer.
func Satisfies(current, minimum string) bool {
	curMajor, curMinor, curPatch, curSuffix := split(current)
	minMajor, minMinor, minPatch, minSuffix := split(minimum)

	for _, pair := range [][2]int{{curMajor, minMajor}, {curMinor, minMinor}, {curPatch, minPatch}} {
		if pair[0] > pair[1] {
			return true
		}
		if pair[0] < pair[1] {
			return false
		}
	}
	return curSuffix >= minSuffix
}

// Require returns an error when current does not satisfy minimum.
func Require(current, minimum string) error {
	if Satisfies(current, minimum) {
		return nil
	}
	return errors.NewValidationError("version",
		"ocrd version "+current+" is too old, version "+minimum+" or newer is required")
}

// split extracts (major, minor, patch, suffix) from a dotted version string.
// Missing or non-numeric components parse as 0.
func split(v string) (major, minor, patch int, suffix string) {
	rest := v
	nums := [3]int{}
	for i := 0; i < 3; i++ {
		j := 0
		for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
			j++
		}
		nums[i], _ = strconv.Atoi(rest[:j])
		rest = rest[j:]
		if i < 2 && strings.HasPrefix(rest, ".") {
			rest = rest[1:]
		}
	}
	if rest == "" {
		rest = "0"
	}
	return nums[0], nums[1], nums[2], rest
}
