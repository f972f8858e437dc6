package eval

import "strings"

func lowerNoFold(s string) string {
	return strings.ToLower(s)
}

func containsFold(haystack, needleLower string) bool {
	return strings.Contains(haystack, needleLower)
}
