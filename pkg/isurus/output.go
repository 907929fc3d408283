package isurus

import (
	"regexp"
	"time"
)

// timestampLayout is the YYYY-MM-DD_HH-MM-SS form used in generated
// file names.
const timestampLayout = "2006-01-02_15-04-05"

var makoSuffixRe = regexp.MustCompile(`(?i)^(.*)\.mako$`)

// Datestamp returns the current time formatted for generated file names.
func Datestamp() string {
	return time.Now().Format(timestampLayout)
}

// DeriveOutput maps an input path to an output path: a .mako suffix is
// stripped case-insensitively, anything else gets a generated
// isurus_out_<timestamp>.txt name.
func DeriveOutput(input string) string {
	if m := makoSuffixRe.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return "isurus_out_" + Datestamp() + ".txt"
}
