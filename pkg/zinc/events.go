package zinc

import (
	"encoding/json"
	"strings"

	"github.com/orderbridge/orderbridge-backend/pkg/types"
)

// EventKind is the closed set of upstream response variants. Payloads are
// decoded once at the gateway boundary so callers never re-derive meaning
// from raw fields.
type EventKind string

const (
	KindOrderResponse  EventKind = "order_response"
	KindError          EventKind = "error"
	KindReturnResponse EventKind = "return_response"
	KindUnknown        EventKind = "unknown"
)

// Webhook channel slugs. Each submission registers callbacks on the first
// three; ChannelPoll marks events fetched by the sweep rather than delivered.
const (
	ChannelSucceeded = "succeeded"
	ChannelFailed    = "failed"
	ChannelTracking  = "tracking"
	ChannelPoll      = "poll"
)

// Tracking is one tracking entry reported by upstream.
type Tracking struct {
	ProductID      string `json:"product_id"`
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url"`
}

// Event is a decoded upstream payload. Raw retains the whole payload for
// persistence; the typed fields cover everything reconciliation inspects.
type Event struct {
	Kind            EventKind
	RequestID       string
	MerchantOrderID string
	Tracking        []Tracking
	Code            string
	Message         string
	Status          string
	ReturnLabelURL  string
	Raw             types.JSONMap
}

type eventPayload struct {
	Type            string          `json:"_type"`
	RequestID       string          `json:"request_id"`
	MerchantOrderID string          `json:"merchant_order_id"`
	Tracking        []Tracking      `json:"tracking"`
	Code            string          `json:"code"`
	Message         string          `json:"message"`
	Status          string          `json:"status"`
	ReturnLabelURL  string          `json:"return_label_url"`
	Raw             json.RawMessage `json:"-"`
}

// DecodeEvent parses an upstream payload into its tagged variant. Unknown or
// missing type tags decode to KindUnknown rather than failing; the raw
// payload is preserved either way.
func DecodeEvent(data []byte) (Event, error) {
	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Event{}, err
	}

	var raw types.JSONMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return Event{}, err
	}

	ev := Event{
		RequestID:       payload.RequestID,
		MerchantOrderID: payload.MerchantOrderID,
		Tracking:        payload.Tracking,
		Code:            payload.Code,
		Message:         payload.Message,
		Status:          payload.Status,
		ReturnLabelURL:  payload.ReturnLabelURL,
		Raw:             raw,
	}

	switch payload.Type {
	case string(KindOrderResponse):
		ev.Kind = KindOrderResponse
	case string(KindError):
		ev.Kind = KindError
	case string(KindReturnResponse):
		ev.Kind = KindReturnResponse
	default:
		ev.Kind = KindUnknown
	}
	return ev, nil
}

// HasTracking reports whether the event carries at least one tracking entry.
func (e Event) HasTracking() bool {
	return len(e.Tracking) > 0
}

// IsTrackingError reports whether the event is an error whose code mentions
// tracking, the shape delivered on the tracking webhook channel.
func (e Event) IsTrackingError() bool {
	return e.Kind == KindError && strings.Contains(e.Code, "tracking")
}
