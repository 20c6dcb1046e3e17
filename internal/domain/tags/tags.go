// Package tags maps noisy external tag strings to a canonical vocabulary.
package tags

import "strings"

// aliases maps known tag spellings to their canonical form. Unknown tags
// pass through lowercased and trimmed.
var aliases = map[string]string{
	"dp":                        "dp",
	"dynamic programming":       "dp",
	"greedy":                    "greedy",
	"implementation":            "implementation",
	"math":                      "math",
	"number theory":             "number theory",
	"graphs":                    "graphs",
	"graph":                     "graphs",
	"trees":                     "trees",
	"tree":                      "trees",
	"binary search":             "binary search",
	"binarysearch":              "binary search",
	"data structures":           "data structures",
	"ds":                        "data structures",
	"strings":                   "strings",
	"string":                    "strings",
	"geometry":                  "geometry",
	"sorting":                   "sortings",
	"sortings":                  "sortings",
	"brute force":               "brute force",
	"bruteforce":                "brute force",
	"constructive algorithms":   "constructive algorithms",
	"constructive":              "constructive algorithms",
	"two pointers":              "two pointers",
	"twopointers":               "two pointers",
	"dfs and similar":           "dfs and similar",
	"dfs":                       "dfs and similar",
	"bfs":                       "dfs and similar",
	"bitmasks":                  "bitmasks",
	"bitmask":                   "bitmasks",
	"combinatorics":             "combinatorics",
	"divide and conquer":        "divide and conquer",
	"games":                     "games",
	"game theory":               "games",
	"interactive":               "interactive",
	"probabilities":             "probabilities",
	"probability":               "probabilities",
	"shortest paths":            "shortest paths",
	"flows":                     "flows",
	"dsu":                       "dsu",
	"disjoint set union":        "dsu",
	"union find":                "dsu",
	"hashing":                   "hashing",
	"fft":                       "fft",
	"matrices":                  "matrices",
	"matrix":                    "matrices",
	"ternary search":            "ternary search",
	"meet-in-the-middle":        "meet-in-the-middle",
	"expression parsing":        "expression parsing",
	"2-sat":                     "2-sat",
	"chinese remainder theorem": "chinese remainder theorem",
	"schedules":                 "schedules",
}

// Normalize maps a single raw tag to its canonical lowercase form.
// Unknown tags are returned lowercased and trimmed. Pure; never fails.
func Normalize(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if canonical, ok := aliases[t]; ok {
		return canonical
	}
	return t
}

// NormalizeAll normalizes a list of raw tags, dropping empties and
// deduplicating while preserving first-seen order.
func NormalizeAll(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		n := Normalize(t)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Split normalizes a comma-joined tag string into canonical tags.
// Empty input yields an empty result.
func Split(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	return NormalizeAll(strings.Split(joined, ","))
}

// Join renders canonical tags back into the comma-joined storage form.
func Join(canonical []string) string {
	return strings.Join(canonical, ",")
}
