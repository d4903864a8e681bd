package lcov

import (
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/covgate/domain"
)

// Classifier assigns source file paths to architectural categories.
//
// Generated-file markers are checked first by substring containment; layer
// markers are then evaluated top to bottom with first match winning, so the
// marker order is part of the classification contract.
type Classifier struct {
	generatedMarkers []string
	layerMarkers     []domain.LayerMarker
	ignorer          *ignore.GitIgnore
}

// NewClassifier creates a classifier from the given rule set. Exclude
// patterns use gitignore syntax; an empty pattern list excludes nothing.
func NewClassifier(generatedMarkers []string, layerMarkers []domain.LayerMarker, excludePatterns []string) *Classifier {
	c := &Classifier{
		generatedMarkers: generatedMarkers,
		layerMarkers:     layerMarkers,
	}
	if len(excludePatterns) > 0 {
		c.ignorer = ignore.CompileIgnoreLines(excludePatterns...)
	}
	return c
}

// Excluded reports whether the path is dropped from all accounting.
func (c *Classifier) Excluded(path string) bool {
	return c.ignorer != nil && c.ignorer.MatchesPath(path)
}

// IsGenerated reports whether the path carries a generated-file marker.
func (c *Classifier) IsGenerated(path string) bool {
	for _, marker := range c.generatedMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

// Classify returns the layer category for a non-generated path. Paths
// matching no marker land in the catch-all other category.
func (c *Classifier) Classify(path string) domain.Category {
	for _, lm := range c.layerMarkers {
		if strings.Contains(path, lm.Marker) {
			return lm.Category
		}
	}
	return domain.CategoryOther
}
