package utils

import (
	"regexp"
)

var (
	// ANSI escape code cleaner
	ANSI_CLEANER = regexp.MustCompile(`(\x9B|\x1B\[)[0-?]*[ -\/]*[@-~]`)
)

// StripANSI removes all ANSI escape codes, e.g. colors of captured log lines
// before they are written to a file.
func StripANSI(s string) string {
	return ANSI_CLEANER.ReplaceAllString(s, "")
}
