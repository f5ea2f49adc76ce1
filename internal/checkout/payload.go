package checkout

import (
	"strconv"

	"github.com/kirana-labs/storefront-checkout/internal/money"
	"github.com/kirana-labs/storefront-checkout/internal/store"
)

// buildOrderRequest assembles the immutable order payload for one settlement
// attempt. setPaid is true only after a verified gateway payment.
func buildOrderRequest(in Input, q Quote, setPaid bool, meta []store.MetaEntry) store.OrderRequest {
	req := store.OrderRequest{
		CustomerID:         in.CustomerID,
		PaymentMethod:      in.PaymentMethod,
		PaymentMethodTitle: in.PaymentMethodTitle,
		SetPaid:            setPaid,
		Status:             OrderStatusProcessing,
		Billing:            toStoreAddress(in.Billing),
		Shipping:           toStoreAddress(in.Shipping),
		MetaData:           meta,
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			continue
		}
		id, err := strconv.ParseInt(l.ProductID, 10, 64)
		if err != nil {
			continue
		}
		req.LineItems = append(req.LineItems, store.OrderLineItem{ProductID: id, Quantity: l.Quantity})
	}
	if q.Method != nil {
		req.ShippingLines = append(req.ShippingLines, store.OrderShippingLine{
			MethodID:    q.Method.NormalisedMethodID(),
			MethodTitle: q.Method.Title,
			Total:       strconv.FormatFloat(money.Round2(q.ShippingCost), 'f', 2, 64),
		})
	}
	for _, c := range in.Coupons {
		if c.Code == "" {
			continue
		}
		req.CouponLines = append(req.CouponLines, store.OrderCouponLine{Code: c.Code})
	}
	return req
}

func toStoreAddress(a Address) store.Address {
	return store.Address{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Address1:  a.Line1,
		Address2:  a.Line2,
		City:      a.City,
		State:     a.State,
		Postcode:  a.Postcode,
		Country:   a.Country,
		Email:     a.Email,
		Phone:     a.Phone,
	}
}
