package core

import (
	"crypto/md5"
	"encoding/hex"
)

const DefaultBasename = "figure"

// DeriveBasename names the artifact pair for a configuration. An empty
// configuration maps to DefaultBasename; anything else to "figure-" followed
// by the md5 of the canonical serialization.
func DeriveBasename(opts Options) (string, error) {
	if len(opts) == 0 {
		return DefaultBasename, nil
	}

	canonical, err := CanonicalOptions(opts)
	if err != nil {
		return "", err
	}

	sum := md5.Sum([]byte(canonical))
	return DefaultBasename + "-" + hex.EncodeToString(sum[:]), nil
}

// CanonicalOptions serializes opts in canonical form. Empty options yield
// "{}" so templates always receive a well-formed object.
func CanonicalOptions(opts Options) (string, error) {
	if len(opts) == 0 {
		return "{}", nil
	}
	v, err := FromAny(opts)
	if err != nil {
		return "", err
	}
	return v.Canonical(), nil
}
