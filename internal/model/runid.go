package model

import (
	"fmt"
	"strings"
)

// ValidateRunID rejects ids that cannot be used as a single path element.
func ValidateRunID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("run id is required")
	case id == "." || strings.Contains(id, ".."):
		return fmt.Errorf("invalid run id %q: dot segments are not allowed", id)
	case strings.ContainsAny(id, `/\`):
		return fmt.Errorf("invalid run id %q: path separators are not allowed", id)
	}
	return nil
}
