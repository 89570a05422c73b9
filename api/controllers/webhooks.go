package controllers

import (
	"context"
	"crypto/subtle"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/orderbridge/orderbridge-backend/api/responses"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

const maxWebhookBody = 1 << 20 // 1 MiB

// DeliveryHandler is the slice of the reconciliation engine the webhook
// controller drives.
type DeliveryHandler interface {
	HandleDelivery(ctx context.Context, channel string, body []byte) error
}

// Webhook accepts upstream callback deliveries. Authentication is the shared
// secret in the query string; a wrong secret changes nothing and returns
// 401. A valid delivery always answers 200 whether or not it matched an
// order, so upstream never retries payloads we chose to ignore.
func Webhook(handler DeliveryHandler, secret string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channel := chi.URLParam(r, "channel")
		switch channel {
		case zinc.ChannelSucceeded, zinc.ChannelFailed, zinc.ChannelTracking:
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "unknown webhook channel"))
			return
		}

		provided := r.URL.Query().Get("secret")
		if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook secret"))
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable webhook body"))
			return
		}

		if err := handler.HandleDelivery(r.Context(), channel, body); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "webhook delivery not recorded"))
			return
		}

		responses.WriteSuccess(w, map[string]bool{"received": true})
	}
}
