package orders

import (
	"github.com/google/uuid"

	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

// CheckoutInput carries a validated purchase request.
type CheckoutInput struct {
	Mode        enums.CheckoutMode
	Address     zinc.Address
	Credentials *zinc.RetailerCredentials
	Payment     *zinc.PaymentMethod
}

// CheckoutResult is the synchronous acknowledgment of a checkout.
type CheckoutResult struct {
	OrderID           uuid.UUID
	UpstreamRequestID string
	Status            enums.OrderStatus
}
