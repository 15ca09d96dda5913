package domain

import "time"

type FulfillmentMethod string

const (
	FulfillmentDelivery   FulfillmentMethod = "delivery"
	FulfillmentCollection FulfillmentMethod = "collection"
)

func (m FulfillmentMethod) String() string {
	return string(m)
}

// AdjustmentDelivery is the adjustment bucket holding delivery fees.
const AdjustmentDelivery = "delivery"

type Cart struct {
	ID                int64                   `json:"id"`
	Items             []CartItem              `json:"items"`
	Adjustments       map[string][]Adjustment `json:"adjustments,omitempty"`
	FulfillmentMethod FulfillmentMethod       `json:"fulfillmentMethod,omitempty"`
	ShippedAt         *time.Time              `json:"shippedAt,omitempty"`
	ShippingAddress   *Address                `json:"shippingAddress,omitempty"`
	ItemsTotal        int64                   `json:"itemsTotal"`
	Total             int64                   `json:"total"`
}

type CartItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Total     int64  `json:"total"`
}

// Adjustment amounts are expressed in cents.
type Adjustment struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// Clone returns a deep copy so the result can be modified without touching c.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	if c.Items != nil {
		out.Items = make([]CartItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	if c.Adjustments != nil {
		out.Adjustments = make(map[string][]Adjustment, len(c.Adjustments))
		for kind, adjustments := range c.Adjustments {
			out.Adjustments[kind] = append([]Adjustment(nil), adjustments...)
		}
	}
	if c.ShippedAt != nil {
		shippedAt := *c.ShippedAt
		out.ShippedAt = &shippedAt
	}
	if c.ShippingAddress != nil {
		address := *c.ShippingAddress
		out.ShippingAddress = &address
	}
	return &out
}

// Item returns the item with the given id.
func (c *Cart) Item(id int64) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CartItem{}, false
}

func (c *Cart) ItemsCount() int {
	if c == nil {
		return 0
	}
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
