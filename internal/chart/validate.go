package chart

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoCategories      = errors.New("chart: at least one category is required")
	ErrBlankCategoryKey  = errors.New("chart: category key is blank")
	ErrDuplicateCategory = errors.New("chart: duplicate category key")
)

// Validate checks the preconditions Render assumes of a category list:
// it is non-empty and keys are non-blank and unique.
func Validate(categories []CategoryConfig) error {
	if len(categories) == 0 {
		return ErrNoCategories
	}
	seen := make(map[string]int, len(categories))
	for i, c := range categories {
		if strings.TrimSpace(c.Key) == "" {
			return fmt.Errorf("%w (index %d)", ErrBlankCategoryKey, i)
		}
		if j, ok := seen[c.Key]; ok {
			return fmt.Errorf("%w %q (index %d and %d)", ErrDuplicateCategory, c.Key, j, i)
		}
		seen[c.Key] = i
	}
	return nil
}
