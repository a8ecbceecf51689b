package mcp

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// isValidIdentifier rejects anything that could break out of a quoted
// identifier before the catalog check runs.
func isValidIdentifier(name string) bool {
	return len(name) > 0 && len(name) < 128 && identifierPattern.MatchString(name)
}

// quoteIdentifier returns "name"
func quoteIdentifier(name string) string {
	return fmt.Sprintf(`"%s"`, name)
}

// getArgs extracts the argument map from a tool request
func getArgs(arguments interface{}) (map[string]interface{}, bool) {
	args, ok := arguments.(map[string]interface{})
	return args, ok
}

// formatValue converts database values to JSON-safe formats
func formatValue(val interface{}) interface{} {
	switch v := val.(type) {
	case []byte:
		if len(v) > 1000 {
			return fmt.Sprintf("<binary data: %d bytes>", len(v))
		}
		if utf8.Valid(v) {
			return string(v)
		}
		return fmt.Sprintf("<binary data: %d bytes>", len(v))
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case nil:
		return nil
	default:
		return v
	}
}
