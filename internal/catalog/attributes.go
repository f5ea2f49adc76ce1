package catalog

import (
	"strings"

	"github.com/kirana-labs/storefront-checkout/internal/store"
)

// Recognised attribute-name synonyms per trait, checked in order. The
// matching rule used to live inline as substring checks; keeping it as an
// explicit table makes the lookup inspectable.
var traitSynonyms = map[string][]string{
	"color": {"color", "colour"},
	"size":  {"size"},
}

// AttributeForTrait finds the product attribute representing a trait such
// as "color" or "size", matching the synonym list case-insensitively. When
// no synonym matches it falls back to the first attribute that has options.
func AttributeForTrait(attrs []store.Attribute, trait string) (store.Attribute, bool) {
	for _, syn := range traitSynonyms[strings.ToLower(strings.TrimSpace(trait))] {
		for _, a := range attrs {
			if strings.EqualFold(strings.TrimSpace(a.Name), syn) && len(a.Options) > 0 {
				return a, true
			}
		}
	}
	for _, a := range attrs {
		if len(a.Options) > 0 {
			return a, true
		}
	}
	return store.Attribute{}, false
}
