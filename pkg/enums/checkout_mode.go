package enums

import "fmt"

// CheckoutMode selects how the upstream order is funded: with buyer-supplied
// retailer credentials and a payment card, or through the managed (addax)
// account.
type CheckoutMode string

const (
	CheckoutModeCredentials CheckoutMode = "credentials"
	CheckoutModeAddax       CheckoutMode = "addax"
)

var validCheckoutModes = []CheckoutMode{
	CheckoutModeCredentials,
	CheckoutModeAddax,
}

// IsValid reports whether the value matches the canonical checkout mode enum.
func (m CheckoutMode) IsValid() bool {
	for _, candidate := range validCheckoutModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseCheckoutMode converts the raw string to CheckoutMode.
func ParseCheckoutMode(value string) (CheckoutMode, error) {
	for _, candidate := range validCheckoutModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout mode %q", value)
}
