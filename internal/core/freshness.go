package core

import (
	"path/filepath"
	"time"
)

// IsFresh reports whether every artifact time is strictly after
// newestSource. No artifacts means nothing is fresh.
func IsFresh(artifactTimes []time.Time, newestSource time.Time) bool {
	if len(artifactTimes) == 0 {
		return false
	}
	for _, t := range artifactTimes {
		if !t.After(newestSource) {
			return false
		}
	}
	return true
}

// IsSourceScript reports whether a file name counts as figure source.
func IsSourceScript(name string) bool {
	return filepath.Ext(name) == ScriptExt
}
