// Small string helpers used by the workload parser.

package cfs

import (
	"regexp"
	"strings"
)

var fieldSplitRe = regexp.MustCompile(`\s+`)

// SplitFields splits s on runs of whitespace, discarding leading/trailing
// whitespace. Used by the workload parser to break a task line into its
// arrival/nice/duration fields.
func SplitFields(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return fieldSplitRe.Split(s, -1)
}
