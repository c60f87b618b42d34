package paging

import (
	"net/http"
	"strconv"
	"strings"
)

// ParsePage reads a zero-based page index from the query parameter key.
// Missing or malformed values yield 0; negative values pass through so the
// controller can ignore them like any other out-of-range navigation.
func ParsePage(r *http.Request, key string) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
