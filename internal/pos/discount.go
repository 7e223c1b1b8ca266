package pos

import "fmt"

// ApplyDiscount clamps a requested cart-level discount against the subtotal.
// A negative request is rejected outright; anything above the subtotal is
// clamped to it, so the final total can never go negative.
func ApplyDiscount(subtotal, requested int64) (int64, error) {
	if requested < 0 {
		return 0, fmt.Errorf("%w: discount must not be negative", ErrValidation)
	}
	if requested > subtotal {
		return subtotal, nil
	}
	return requested, nil
}
