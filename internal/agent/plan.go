package agent

import (
	"regexp"
	"strings"
)

// Accepts lines like "1. Do X", "1) Do X", or "1 - Do X".
var stepPattern = regexp.MustCompile(`^\d+\s*[.)-]\s*(.+)$`)

// parsePlan converts numbered-list text into ordered steps. If the first
// non-blank line carries no numeric marker, the entire text becomes a single
// step. Best effort only; there is no error path.
func parsePlan(text string) []string {
	var steps []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := stepPattern.FindStringSubmatch(line); m != nil {
			steps = append(steps, strings.TrimSpace(m[1]))
			continue
		}
		if len(steps) == 0 {
			return []string{strings.TrimSpace(text)}
		}
	}
	return steps
}
