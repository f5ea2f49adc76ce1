package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// The backend renders variable-product ranges as HTML with the Rupee glyph
// encoded as a decimal entity, e.g. "&#8377;499.00 – &#8377;1,299.00".
var priceRangePattern = regexp.MustCompile(`&#8377;\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// PriceRange is the min/max extracted from a rendered price-range string.
type PriceRange struct {
	Min float64
	Max float64
}

// ParsePriceRange extracts currency amounts from a rendered price string.
// It reports false when no amount could be extracted, in which case callers
// fall back to the product's direct price fields. A single amount yields a
// degenerate range with Min == Max.
func ParsePriceRange(html string) (PriceRange, bool) {
	matches := priceRangePattern.FindAllStringSubmatch(html, -1)
	values := make([]float64, 0, len(matches))
	for _, m := range matches {
		raw := strings.ReplaceAll(m[1], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return PriceRange{}, false
	}
	r := PriceRange{Min: values[0], Max: values[0]}
	for _, v := range values[1:] {
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	return r, true
}
