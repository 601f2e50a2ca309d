package templates

import (
	"strconv"
)

// itoa converts an int to a string for numbered rows in templ.
func itoa(n int) string {
	return strconv.Itoa(n)
}
