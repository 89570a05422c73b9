package enums

import "fmt"

// OrderStatus describes the local lifecycle of a fulfillment order.
//
// `order_response` and `error` are terminal for the poll sweep, but a later
// webhook or poll result may still overwrite them; the reconciliation engine
// deliberately does not enforce monotonic transitions.
type OrderStatus string

const (
	OrderStatusInitiated         OrderStatus = "initiated"
	OrderStatusRequestProcessing OrderStatus = "request_processing"
	OrderStatusOrderResponse     OrderStatus = "order_response"
	OrderStatusError             OrderStatus = "error"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusInitiated,
	OrderStatusRequestProcessing,
	OrderStatusOrderResponse,
	OrderStatusError,
}

// PollableOrderStatuses are the statuses the sweep actively queries upstream for.
func PollableOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusInitiated, OrderStatusRequestProcessing}
}

// IsValid reports whether the value matches the canonical order status enum.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the poll sweep should stop querying this status.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusOrderResponse || s == OrderStatusError
}

// ParseOrderStatus converts the raw string to OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
