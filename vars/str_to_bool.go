package vars

import "strings"

// StrToBool parses a flag or environment value.
// Anything but an explicit false value is true.
func StrToBool(str string) bool {
	str = strings.ToLower(strings.TrimSpace(str))
	switch str {
	case "false", "f", "no", "n", "0", "off", "":
		return false
	}
	return true
}
