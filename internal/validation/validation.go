// Package validation checks user supplied CLI and configuration values.
package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/trakli/webui/internal/parsererror"
)

// OutputFormats lists the report formats the CLI can render.
var OutputFormats = []string{"text", "json", "yaml", "csv"}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	if slices.Contains(OutputFormats, strings.ToLower(format)) {
		return nil
	}
	return &parsererror.ValidationError{
		Field:  "output format",
		Reason: fmt.Sprintf("unsupported value %q, supported formats are %s", format, strings.Join(OutputFormats, ", ")),
	}
}

// IsValidDelimiter checks that a CSV delimiter is a single character other
// than a quote or a line break.
func IsValidDelimiter(delimiter string) error {
	runes := []rune(delimiter)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\r' || runes[0] == '\n' {
		return &parsererror.ValidationError{
			Field:  "output delimiter",
			Reason: fmt.Sprintf("must be a single character, got %q", delimiter),
		}
	}
	return nil
}
