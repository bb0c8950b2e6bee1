package habit

import (
	"regexp"
	"strings"
)

// tagPattern matches the assistant tag contract:
// [HABIT: <name> | FREQUENCY: <freq> | TIME: <time>]
// Keywords are case-insensitive; the name may not contain '|'.
var tagPattern = regexp.MustCompile(`(?i)\[HABIT:\s*([^|]+)\s*\|\s*FREQUENCY:\s*(\w+)\s*\|\s*TIME:\s*(\w+)\s*\]`)

// stripPattern is looser than tagPattern on purpose: even a malformed tag
// should not leak into user-facing text.
var stripPattern = regexp.MustCompile(`\[HABIT:.*?\]`)

// Extract scans assistant-authored text for habit tags and returns the
// valid proposals in order of appearance. Malformed tags and tags with
// out-of-range frequency or time values are skipped silently. The scan is
// a pure function of its input.
func Extract(text string) []Extracted {
	var out []Extracted
	for _, m := range tagPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		freq := Frequency(strings.ToLower(strings.TrimSpace(m[2])))
		tod := TimeOfDay(strings.ToLower(strings.TrimSpace(m[3])))
		if name == "" || !ValidFrequency(freq) || !ValidTimeOfDay(tod) {
			continue
		}
		out = append(out, Extracted{Name: name, Frequency: freq, TimeOfDay: tod})
	}
	return out
}

// StripTags removes habit tags from assistant text before it is shown to
// the user, trimming any surrounding whitespace the removal leaves behind.
func StripTags(text string) string {
	return strings.TrimSpace(stripPattern.ReplaceAllString(text, ""))
}
