package utils

import "strings"

// ToBool coerces a CSV cell or query value to a bool. The falsy spellings
// "", "0", "false" and "no" map to false, matching the normalization the
// CSV validator applies; anything else is true.
func ToBool(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}
