package catalog

import (
	"strings"

	"github.com/google/uuid"
)

// MatchCategory maps free-text category name to the best existing category.
// A category matches when its name case-insensitively equals the text or the
// text contains the name as a substring. The first match in the provided order
// wins, so callers should pass a stable ordering (the category store returns
// them alphabetically) to keep the result deterministic.
//
// Returns nil when the text is empty or nothing matches; a new category is
// never fabricated.
func MatchCategory(text string, known []Category) *uuid.UUID {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	for i := range known {
		name := strings.ToLower(known[i].Name)
		if name == "" {
			continue
		}
		if text == name || strings.Contains(text, name) {
			id := known[i].ID
			return &id
		}
	}

	return nil
}
