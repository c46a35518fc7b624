package cart

import "github.com/shopspring/decimal"

// DefaultCurrency is reported for an empty cart.
const DefaultCurrency = "BDT"

// ShippingPolicy decides the delivery charge for an order.
type ShippingPolicy struct {
	// FreeThreshold is the subtotal at or above which shipping is free.
	FreeThreshold decimal.Decimal
	Fee           decimal.Decimal
}

// DefaultShippingPolicy charges 50 below a subtotal of 1000.
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeThreshold: decimal.NewFromInt(1000),
		Fee:           decimal.NewFromInt(50),
	}
}

// Summary is the order summary shown next to the cart.
type Summary struct {
	ItemCount     int             `json:"itemCount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	FreeShipping  bool            `json:"freeShipping"`
	MixedCurrency bool            `json:"mixedCurrency"`
}

// Summarize computes the order summary for snap. The subtotal is the
// cart's TotalPrice; Currency is that of the first item. MixedCurrency
// reports items priced in more than one currency, in which case Subtotal
// is not meaningful.
func Summarize(snap Snapshot, policy ShippingPolicy) Summary {
	sum := Summary{
		ItemCount: TotalItems(snap.Items),
		Subtotal:  TotalPrice(snap.Items),
		Shipping:  decimal.Zero,
		Currency:  DefaultCurrency,
	}
	if len(snap.Items) == 0 {
		sum.Total = decimal.Zero
		return sum
	}

	sum.Currency = snap.Items[0].Currency
	for _, it := range snap.Items[1:] {
		if it.Currency != sum.Currency {
			sum.MixedCurrency = true
			break
		}
	}

	if sum.Subtotal.GreaterThanOrEqual(policy.FreeThreshold) {
		sum.FreeShipping = true
	} else {
		sum.Shipping = policy.Fee
	}
	sum.Total = sum.Subtotal.Add(sum.Shipping)
	return sum
}
