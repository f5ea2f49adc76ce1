// Package cart models the purchasable lines flowing through checkout and
// the persisted cart snapshot stored as backend customer metadata.
package cart

import "strings"

// DefaultTaxClass is applied when a product carries no explicit tax class.
const DefaultTaxClass = "standard"

// Line is one purchasable unit in the checkout. For variable products the
// ProductID is the resolved variation id, not the parent product id.
type Line struct {
	ProductID         string   `json:"productId"`
	Name              string   `json:"name,omitempty"`
	UnitPrice         float64  `json:"unitPrice"`
	OriginalUnitPrice float64  `json:"originalUnitPrice"`
	Quantity          int      `json:"quantity"`
	TaxClass          string   `json:"taxClass,omitempty"`
	TaxStatus         string   `json:"taxStatus,omitempty"`
	SupportedMethods  []string `json:"supportedPaymentMethods,omitempty"`
}

// EffectiveTaxClass returns the line's tax class, defaulting to standard.
func (l Line) EffectiveTaxClass() string {
	cls := strings.TrimSpace(l.TaxClass)
	if cls == "" {
		return DefaultTaxClass
	}
	return cls
}

// Taxable reports whether the line participates in tax calculation.
func (l Line) Taxable() bool {
	return strings.ToLower(strings.TrimSpace(l.TaxStatus)) != "none"
}

// Supports reports whether the line allows settlement through the provided
// payment method. An empty method list means every method is supported.
func (l Line) Supports(method string) bool {
	if len(l.SupportedMethods) == 0 {
		return true
	}
	for _, m := range l.SupportedMethods {
		if strings.EqualFold(strings.TrimSpace(m), strings.TrimSpace(method)) {
			return true
		}
	}
	return false
}

// Subtotal sums unit price times quantity across lines. Lines with a
// non-positive quantity are skipped.
func Subtotal(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		total += l.UnitPrice * float64(l.Quantity)
	}
	return total
}

// TotalQuantity sums line quantities, skipping non-positive values.
func TotalQuantity(lines []Line) int {
	var total int
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		total += l.Quantity
	}
	return total
}
