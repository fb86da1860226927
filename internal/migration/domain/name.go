package domain

import "strings"

// SplitName breaks a legacy full name into first/last. First token is
// the first name, the remainder the last name; middle names end up in
// the last name rather than being dropped.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
