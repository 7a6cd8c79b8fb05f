package services

import "strings"

// NormalizeCategory folds a free-text category once at the service boundary
// so "Food" and " food" land on the same budget row. Categories stay opaque
// strings everywhere below this point.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
