// Package id generates prefixed correlation ids for event tracing.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate returns a prefixed NanoID, e.g. "evt-V1StGXR8_Z5jdHi6B-myT".
// The 21-character URL-safe alphabet keeps ids compact in log lines.
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// MustGenerate panics when entropy is unavailable. Correlation ids are
// log-only, so a failure here means the host is badly broken anyway.
func MustGenerate(prefix string) string {
	nid, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate id: %v", err))
	}
	return nid
}
