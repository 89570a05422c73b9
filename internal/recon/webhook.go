package recon

import (
	"context"

	"gorm.io/gorm"

	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	"github.com/orderbridge/orderbridge-backend/pkg/types"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

// HandleDelivery processes one webhook payload from the named channel.
//
// The audit row is written first, unconditionally, so a payload is never
// lost even when it matches nothing. Everything after that is best-effort:
// an undecodable payload, an unknown request id or a failed row update is
// logged and swallowed, never surfaced to the sender. Only a failed audit
// insert is returned, since that means the delivery left no trace at all.
func (e *Engine) HandleDelivery(ctx context.Context, channel string, body []byte) error {
	ev, decodeErr := e.audit(ctx, channel, body)
	if decodeErr != nil {
		return decodeErr
	}
	if ev == nil {
		return nil
	}

	if ev.RequestID == "" {
		e.logg.Warn(ctx, "webhook payload has no request id, skipping")
		return nil
	}
	ctx = e.logg.WithUpstreamID(ctx, ev.RequestID)

	if ev.Kind == zinc.KindReturnResponse {
		e.deliverToReturn(ctx, *ev)
		return nil
	}
	e.deliverToOrder(ctx, channel, *ev)
	return nil
}

// audit decodes the payload and records it in the webhook event log. An
// undecodable payload is still audited, with the raw body preserved under a
// fallback key; a nil event with a nil error means the payload carried no
// usable event and the delivery is done. Only a failed audit insert is an
// error.
func (e *Engine) audit(ctx context.Context, channel string, body []byte) (*zinc.Event, error) {
	ev, err := zinc.DecodeEvent(body)
	if err != nil {
		e.logg.Error(ctx, "webhook payload undecodable", err)
		return nil, e.insertAudit(ctx, channel, types.JSONMap{"_raw": string(body)})
	}

	if insertErr := e.insertAudit(ctx, channel, ev.Raw); insertErr != nil {
		return nil, insertErr
	}
	return &ev, nil
}

func (e *Engine) insertAudit(ctx context.Context, channel string, payload types.JSONMap) error {
	if e.events == nil {
		return nil
	}
	if _, err := e.events.Create(ctx, &models.WebhookEvent{
		Source:  channel,
		Payload: payload,
	}); err != nil {
		e.logg.Error(ctx, "webhook audit insert failed", err)
		return err
	}
	return nil
}

func (e *Engine) deliverToOrder(ctx context.Context, channel string, ev zinc.Event) {
	order, err := e.orders.FindByUpstreamID(ctx, ev.RequestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			e.logg.Warn(ctx, "webhook for unknown order, skipping")
			return
		}
		e.logg.Error(ctx, "order lookup failed", err)
		return
	}

	ctx = e.logg.WithOrderID(ctx, order.ID.String())
	if _, err := e.applyOrderEvent(ctx, order, channel, ev); err != nil {
		e.logg.Error(ctx, "order update failed", err)
		return
	}
	e.logg.Info(ctx, "webhook applied to order")
}

func (e *Engine) deliverToReturn(ctx context.Context, ev zinc.Event) {
	ret, err := e.returns.FindByUpstreamID(ctx, ev.RequestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			e.logg.Warn(ctx, "webhook for unknown return, skipping")
			return
		}
		e.logg.Error(ctx, "return lookup failed", err)
		return
	}

	ctx = e.logg.WithReturnID(ctx, ret.ID.String())
	if _, err := e.applyReturnEvent(ctx, ret, ev); err != nil {
		e.logg.Error(ctx, "return update failed", err)
		return
	}
	e.logg.Info(ctx, "webhook applied to return")
}
