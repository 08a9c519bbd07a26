// Command line usage formatting, shared by cmd/cfssim.

package cfs

import (
	"bytes"
	"strings"
)

const defaultFlagUsageWidth = 58

// FormatFlagUsageWidth reformats usage by wrapping its words at width,
// discarding the original line breaks and indentation. Intended for
// multi-line flag.String/flag.Duration usage literals written as Go raw
// strings for source readability.
func FormatFlagUsageWidth(usage string, width int) string {
	buf := &bytes.Buffer{}
	lineLen := 0
	for i, word := range strings.Fields(strings.TrimSpace(usage)) {
		if i > 0 {
			if lineLen+len(word)+1 > width {
				buf.WriteByte('\n')
				lineLen = 0
			} else {
				buf.WriteByte(' ')
				lineLen++
			}
		}
		n, _ := buf.WriteString(word)
		lineLen += n
	}
	return buf.String()
}

// FormatFlagUsage wraps at the package default width.
func FormatFlagUsage(usage string) string {
	return FormatFlagUsageWidth(usage, defaultFlagUsageWidth)
}
