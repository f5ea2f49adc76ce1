package catalog

import "testing"

func TestParsePriceRangeTwoValues(t *testing.T) {
	html := `<span>&#8377;499.00</span> &ndash; <span>&#8377;1,299.00</span>`
	rng, ok := ParsePriceRange(html)
	if !ok {
		t.Fatal("expected a range")
	}
	if rng.Min != 499 || rng.Max != 1299 {
		t.Fatalf("expected [499, 1299], got [%v, %v]", rng.Min, rng.Max)
	}
}

func TestParsePriceRangeSingleValue(t *testing.T) {
	rng, ok := ParsePriceRange(`&#8377;750`)
	if !ok {
		t.Fatal("expected a range")
	}
	if rng.Min != 750 || rng.Max != 750 {
		t.Fatalf("expected degenerate range 750, got [%v, %v]", rng.Min, rng.Max)
	}
}

func TestParsePriceRangeUnorderedValues(t *testing.T) {
	rng, ok := ParsePriceRange(`&#8377;1,299.00 to &#8377;499.00 and &#8377;899.50`)
	if !ok {
		t.Fatal("expected a range")
	}
	if rng.Min != 499 || rng.Max != 1299 {
		t.Fatalf("expected [499, 1299], got [%v, %v]", rng.Min, rng.Max)
	}
}

func TestParsePriceRangeNoValues(t *testing.T) {
	if _, ok := ParsePriceRange(`no prices here`); ok {
		t.Fatal("expected no range")
	}
	if _, ok := ParsePriceRange(``); ok {
		t.Fatal("expected no range for empty input")
	}
}
