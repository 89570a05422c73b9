package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orderbridge/orderbridge-backend/api/responses"
	"github.com/orderbridge/orderbridge-backend/api/validators"
	"github.com/orderbridge/orderbridge-backend/internal/orders"
	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/pagination"
	"github.com/orderbridge/orderbridge-backend/pkg/types"
)

// GetOrder serves one order, refreshed from upstream when still pending.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

// ListOrders serves one cursor page of orders, newest first.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := orderListResponse{
			Orders: make([]orderResponse, 0, len(page.Orders)),
			Cursor: page.Cursor,
		}
		for i := range page.Orders {
			out.Orders = append(out.Orders, newOrderResponse(&page.Orders[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// RetryOrder resubmits a challenged order with a verification code.
func RetryOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload retryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Retry(r.Context(), orderID, payload.VerificationCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}

func orderIDFromURL(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "orderID")
	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a uuid")
	}
	return orderID, nil
}

type retryRequest struct {
	VerificationCode string `json:"verification_code" validate:"required"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Cursor string          `json:"cursor,omitempty"`
}

type orderResponse struct {
	OrderID         uuid.UUID     `json:"order_id"`
	RequestID       string        `json:"request_id,omitempty"`
	Mode            string        `json:"mode"`
	Status          string        `json:"status"`
	MerchantOrderID string        `json:"merchant_order_id,omitempty"`
	Response        types.JSONMap `json:"response,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		OrderID:         order.ID,
		RequestID:       order.UpstreamID,
		Mode:            string(order.Mode),
		Status:          string(order.Status),
		MerchantOrderID: order.MerchantOrderID(),
		Response:        order.Response,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
