package docblocks

import (
	"regexp"
	"strings"

	"github.com/lithammer/dedent"
)

// cleanupMultiline removes the common decorative prefix from lines[from:].
// The prefix length is the shortest prefix matched on a line that has text
// beyond it. When prefix has a decoration group, only lines carrying the
// decoration set that length. Lines made only of prefix are emptied and
// lines with a shorter prefix are kept as they are.
func cleanupMultiline(lines []string, from int, prefix *regexp.Regexp) {
	if from >= len(lines) {
		return
	}

	matches := make([]int, len(lines))
	shortest, decorated := -1, -1
	for i := from; i < len(lines); i++ {
		loc := prefix.FindStringSubmatchIndex(lines[i])
		if loc == nil {
			matches[i] = -1
			continue
		}
		n := loc[1]
		matches[i] = n
		if n >= len(lines[i]) {
			continue
		}
		if shortest < 0 || n < shortest {
			shortest = n
		}
		if len(loc) > 2 && loc[2] >= 0 && (decorated < 0 || n < decorated) {
			decorated = n
		}
	}
	if decorated >= 0 {
		shortest = decorated
	}

	for i := from; i < len(lines); i++ {
		n := matches[i]
		switch {
		case n < 0:
		case n >= len(lines[i]):
			lines[i] = ""
		case shortest > 0 && n >= shortest:
			lines[i] = lines[i][shortest:]
		}
	}
}

// finalizeText drops surrounding blank lines, trims trailing spaces and
// removes common indentation. The result ends in exactly one newline.
func finalizeText(lines []string) string {
	trimmed := make([]string, len(lines))
	for i, line := range lines {
		trimmed[i] = strings.TrimRight(line, " \t")
	}

	first, last := 0, len(trimmed)
	for first < last && trimmed[first] == "" {
		first++
	}
	for last > first && trimmed[last-1] == "" {
		last--
	}
	if first == last {
		return "\n"
	}

	return dedent.Dedent(strings.Join(trimmed[first:last], "\n") + "\n")
}
