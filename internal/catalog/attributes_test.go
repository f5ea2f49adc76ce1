package catalog

import (
	"testing"

	"github.com/kirana-labs/storefront-checkout/internal/store"
)

func TestAttributeForTraitSynonyms(t *testing.T) {
	attrs := []store.Attribute{
		{Name: "Material", Options: []string{"Cotton"}},
		{Name: "Colour", Options: []string{"Red", "Blue"}},
	}
	attr, ok := AttributeForTrait(attrs, "color")
	if !ok || attr.Name != "Colour" {
		t.Fatalf("expected Colour attribute, got %+v ok=%v", attr, ok)
	}
}

func TestAttributeForTraitFallbackFirstWithOptions(t *testing.T) {
	attrs := []store.Attribute{
		{Name: "Finish"},
		{Name: "Pattern", Options: []string{"Striped"}},
	}
	attr, ok := AttributeForTrait(attrs, "size")
	if !ok || attr.Name != "Pattern" {
		t.Fatalf("expected fallback to first attribute with options, got %+v ok=%v", attr, ok)
	}
}

func TestAttributeForTraitNoOptions(t *testing.T) {
	if _, ok := AttributeForTrait([]store.Attribute{{Name: "Size"}}, "size"); ok {
		t.Fatal("attributes without options must not match")
	}
}
