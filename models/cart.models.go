package models

// CartLine represents one product of the user's cart.
// The remote bucket returns the product fields flattened next to the quantity.
type CartLine struct {
	Product
	Quantity int `json:"quantity,omitempty"`
}

// Qty returns the line quantity, reading a missing quantity as 1
func (l CartLine) Qty() int {
	if l.Quantity <= 0 {
		return 1
	}
	return l.Quantity
}

// Subtotal is price times quantity
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Qty())
}

// AddToCartRequest is the body of the remote add-to-cart call
type AddToCartRequest struct {
	ProductID ID `json:"productId"`
}
