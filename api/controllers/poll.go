package controllers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/orderbridge/orderbridge-backend/api/responses"
	"github.com/orderbridge/orderbridge-backend/internal/recon"
	pkgerrors "github.com/orderbridge/orderbridge-backend/pkg/errors"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
)

// Sweeper is the slice of the reconciliation engine the poll endpoint drives.
type Sweeper interface {
	Sweep(ctx context.Context) (recon.SweepResult, error)
}

// Poll runs a reconciliation sweep on demand. Authenticated with the poll
// secret as a bearer token. Per-entity failures are already logged and
// isolated inside the sweep, so the response carries the counts either way.
func Poll(sweeper Sweeper, secret string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !bearerMatches(r.Header.Get("Authorization"), secret) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid poll secret"))
			return
		}

		result, err := sweeper.Sweep(r.Context())
		if err != nil {
			logg.Error(r.Context(), "poll sweep finished with entity failures", err)
		}

		responses.WriteSuccess(w, result)
	}
}

func bearerMatches(header, secret string) bool {
	if secret == "" {
		return false
	}
	token := strings.TrimSpace(header)
	if !strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return false
	}
	token = strings.TrimSpace(token[7:])
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
