package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/orderbridge/orderbridge-backend/api/responses"
	"github.com/orderbridge/orderbridge-backend/api/validators"
	"github.com/orderbridge/orderbridge-backend/internal/orders"
	"github.com/orderbridge/orderbridge-backend/pkg/enums"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/zinc"
)

// Checkout handles submission of a purchase.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), orders.CheckoutInput{
			Mode:        enums.CheckoutMode(payload.Mode),
			Address:     payload.Address,
			Credentials: payload.Credentials,
			Payment:     payload.Payment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			OrderID:   result.OrderID,
			RequestID: result.UpstreamRequestID,
			Status:    string(result.Status),
		})
	}
}

type checkoutRequest struct {
	Mode        string                    `json:"mode" validate:"required,oneof=credentials addax"`
	Address     zinc.Address              `json:"address" validate:"required"`
	Credentials *zinc.RetailerCredentials `json:"credentials,omitempty"`
	Payment     *zinc.PaymentMethod       `json:"payment,omitempty"`
}

type checkoutResponse struct {
	OrderID   uuid.UUID `json:"order_id"`
	RequestID string    `json:"request_id"`
	Status    string    `json:"status"`
}
