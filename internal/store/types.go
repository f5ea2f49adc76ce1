package store

// Product is the catalog detail payload for a simple or variable product.
type Product struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	Price        string      `json:"price"`
	RegularPrice string      `json:"regular_price"`
	SalePrice    string      `json:"sale_price"`
	PriceHTML    string      `json:"price_html"`
	Attributes   []Attribute `json:"attributes"`
	Variations   []int64     `json:"variations"`
	TaxClass     string      `json:"tax_class"`
	TaxStatus    string      `json:"tax_status"`
	Images       []Image     `json:"images"`
}

// Attribute is a product-level attribute with its selectable options.
type Attribute struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// Image is a catalog image reference.
type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

// Variation is the detail payload for one variation of a variable product.
type Variation struct {
	ID           int64                `json:"id"`
	Price        string               `json:"price"`
	RegularPrice string               `json:"regular_price"`
	SalePrice    string               `json:"sale_price"`
	Attributes   []VariationAttribute `json:"attributes"`
}

// VariationAttribute is the option a variation carries for one attribute.
type VariationAttribute struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

// TaxRateRecord is a backend tax-rate row. An empty Class means standard.
type TaxRateRecord struct {
	ID       int64  `json:"id"`
	Rate     string `json:"rate"`
	Class    string `json:"class"`
	Shipping bool   `json:"shipping"`
	Name     string `json:"name"`
}

// ShippingMethodRecord is a configured shipping-method instance. The cost
// formula lives inside the settings block.
type ShippingMethodRecord struct {
	ID         int64                  `json:"id"`
	InstanceID int64                  `json:"instance_id"`
	MethodID   string                 `json:"method_id"`
	Enabled    bool                   `json:"enabled"`
	Settings   ShippingMethodSettings `json:"settings"`
}

// ShippingMethodSettings wraps the value-bearing settings fields.
type ShippingMethodSettings struct {
	Title     SettingValue `json:"title"`
	Cost      SettingValue `json:"cost"`
	TaxStatus SettingValue `json:"tax_status"`
}

// SettingValue is the backend's {value: ...} wrapper around a setting.
type SettingValue struct {
	Value string `json:"value"`
}

// Gateway is an enabled payment gateway offered at checkout.
type Gateway struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
	Title   string `json:"title"`
}

// Address is the billing or shipping address snapshot submitted with an order.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
}

// OrderLineItem is one purchased line in an order payload.
type OrderLineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderShippingLine records the selected shipping method and its cost.
type OrderShippingLine struct {
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Total       string `json:"total"`
}

// OrderCouponLine references an applied coupon by code.
type OrderCouponLine struct {
	Code string `json:"code"`
}

// MetaEntry is a key/value metadata pair attached to an order.
type MetaEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// OrderRequest is the order-creation payload submitted at settlement time.
// It is assembled once and never mutated afterwards.
type OrderRequest struct {
	CustomerID         int64               `json:"customer_id"`
	PaymentMethod      string              `json:"payment_method"`
	PaymentMethodTitle string              `json:"payment_method_title"`
	SetPaid            bool                `json:"set_paid"`
	Status             string              `json:"status"`
	Billing            Address             `json:"billing"`
	Shipping           Address             `json:"shipping"`
	LineItems          []OrderLineItem     `json:"line_items"`
	ShippingLines      []OrderShippingLine `json:"shipping_lines"`
	CouponLines        []OrderCouponLine   `json:"coupon_lines,omitempty"`
	MetaData           []MetaEntry         `json:"meta_data,omitempty"`
}

// Order is the backend's response to order creation.
type Order struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Total  string `json:"total"`
}
