package mention

import "regexp"

// handlePattern matches "@" followed by one or more word characters.
// Anything else (punctuation, whitespace, unicode letters outside the
// username alphabet) terminates the handle.
var handlePattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// Extract returns every handle referenced in text, in first-occurrence
// order, without deduplication. Callers that need a unique set (e.g. for
// a directory lookup) dedupe on their side; keeping duplicates here lets
// the caller count raw mentions.
func Extract(text string) []string {
	if text == "" {
		return nil
	}

	matches := handlePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	handles := make([]string, 0, len(matches))
	for _, m := range matches {
		handles = append(handles, m[1])
	}
	return handles
}

// UniqueHandles collapses the extracted handles into a set that preserves
// first-occurrence order.
func UniqueHandles(handles []string) []string {
	if len(handles) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(handles))
	unique := make([]string, 0, len(handles))
	for _, h := range handles {
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		unique = append(unique, h)
	}
	return unique
}
