// Package utils provides small helpers with no domain knowledge.
package utils

import "strconv"

// AtoiDefault parses s as an integer, returning def when s is empty or not a
// valid int. Query parameters like page and page_size arrive as strings and
// this keeps their parsing in one place.
//
//	utils.AtoiDefault("3", 1)  // 3
//	utils.AtoiDefault("", 20)  // 20
//	utils.AtoiDefault("x", 20) // 20
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
