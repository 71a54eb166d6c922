package utils

import (
	"strings"

	"golang.org/x/mod/semver"
)

// CheckClientVersion reports if toCheck is at least required.
// Both versions may be given with or without the leading "v".
func CheckClientVersion(toCheck, required string) bool {
	toCheck = canonical(toCheck)
	required = canonical(required)
	if !semver.IsValid(toCheck) {
		return false
	}
	return semver.Compare(toCheck, required) >= 0
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
