package recon

import (
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

// NextOrderStatus computes the status an order takes after a reconciling
// event arrives on the given channel. Statuses are never monotonic: a later
// event can move an order out of a terminal status, and an event that
// matches no rule leaves the status unchanged (the payload is still
// overwritten by the caller).
func NextOrderStatus(current enums.OrderStatus, channel string, ev zinc.Event) enums.OrderStatus {
	switch channel {
	case zinc.ChannelSucceeded:
		if ev.Kind == zinc.KindOrderResponse {
			return enums.OrderStatusOrderResponse
		}
	case zinc.ChannelFailed:
		if ev.Kind == zinc.KindError {
			return enums.OrderStatusError
		}
	case zinc.ChannelTracking:
		// The tracking channel only resolves an order when it actually
		// carries tracking data or a tracking-specific failure.
		if ev.Kind == zinc.KindOrderResponse && ev.HasTracking() {
			return enums.OrderStatusOrderResponse
		}
		if ev.IsTrackingError() {
			return enums.OrderStatusError
		}
	case zinc.ChannelPoll:
		switch ev.Kind {
		case zinc.KindOrderResponse:
			return enums.OrderStatusOrderResponse
		case zinc.KindError:
			return enums.OrderStatusError
		}
	}
	return current
}

// NextReturnState computes the status and label a return takes after a
// reconciling event. Only return_response events carry state for a return:
// anything else leaves the status untouched (the payload is still
// overwritten by the caller). Within a return_response, a label URL
// resolves the return regardless of its current status; otherwise an
// explicit upstream status string is adopted verbatim, carrier vocabulary
// included.
func NextReturnState(current enums.ReturnStatus, ev zinc.Event) (enums.ReturnStatus, *string) {
	if ev.Kind != zinc.KindReturnResponse {
		return current, nil
	}
	if ev.ReturnLabelURL != "" {
		label := ev.ReturnLabelURL
		return enums.ReturnStatusLabelGenerated, &label
	}
	if ev.Status != "" {
		return enums.ReturnStatus(ev.Status), nil
	}
	return current, nil
}
