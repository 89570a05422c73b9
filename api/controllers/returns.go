package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orderbridge/orderbridge-backend/api/responses"
	"github.com/orderbridge/orderbridge-backend/api/validators"
	"github.com/orderbridge/orderbridge-backend/internal/returns"
	"github.com/orderbridge/orderbridge-backend/pkg/db/models"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
	"github.com/orderbridge/orderbridge-backend/pkg/pagination"
	"github.com/orderbridge/orderbridge-backend/pkg/types"
)

// CreateReturn opens a return for a completed order: the order id comes
// from the URL, the quantity and an optional reason code from the body.
func CreateReturn(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createReturnRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ret, err := svc.Create(r.Context(), orderID, returns.CreateInput{
			Quantity: payload.Quantity,
			Reason:   payload.Reason,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newReturnResponse(ret))
	}
}

type createReturnRequest struct {
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Reason   string `json:"reason,omitempty"`
}

// GetOrderReturn serves the return attached to an order.
func GetOrderReturn(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ret, err := svc.GetByOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newReturnResponse(ret))
	}
}

// GetReturn serves one return by its own id.
func GetReturn(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "returnID")
		returnID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "return id must be a uuid"))
			return
		}

		ret, err := svc.Get(r.Context(), returnID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newReturnResponse(ret))
	}
}

// ListReturns serves one cursor page of returns, newest first.
func ListReturns(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
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

		out := returnListResponse{
			Returns: make([]returnResponse, 0, len(page.Returns)),
			Cursor:  page.Cursor,
		}
		for i := range page.Returns {
			out.Returns = append(out.Returns, newReturnResponse(&page.Returns[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type returnListResponse struct {
	Returns []returnResponse `json:"returns"`
	Cursor  string           `json:"cursor,omitempty"`
}

type returnResponse struct {
	ReturnID  uuid.UUID     `json:"return_id"`
	OrderID   uuid.UUID     `json:"order_id"`
	RequestID string        `json:"request_id"`
	Status    string        `json:"status"`
	LabelURL  *string       `json:"label_url,omitempty"`
	Response  types.JSONMap `json:"response,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func newReturnResponse(ret *models.Return) returnResponse {
	return returnResponse{
		ReturnID:  ret.ID,
		OrderID:   ret.OrderID,
		RequestID: ret.UpstreamID,
		Status:    string(ret.Status),
		LabelURL:  ret.LabelURL,
		Response:  ret.Response,
		CreatedAt: ret.CreatedAt,
		UpdatedAt: ret.UpdatedAt,
	}
}
