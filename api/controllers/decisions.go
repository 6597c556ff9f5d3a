package controllers

import (
	"net/http"

	"github.com/nurulloasawear/order-app/api/middleware"
	"github.com/nurulloasawear/order-app/api/responses"
	"github.com/nurulloasawear/order-app/api/validators"
	"github.com/nurulloasawear/order-app/internal/decisions"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
)

// DecisionsSaveRequest is a batch submission. IsFinal finalizes the batch
// and triggers manifest rendering.
type DecisionsSaveRequest struct {
	Decisions []decisions.ItemInput `json:"decisions" validate:"required"`
	IsFinal   bool                  `json:"is_final"`
}

func ledgerActor(r *http.Request) decisions.Actor {
	ctx := r.Context()
	return decisions.Actor{
		Username:       middleware.UsernameFromContext(ctx),
		Role:           middleware.RoleFromContext(ctx),
		AssignedStores: middleware.AssignedStoresFromContext(ctx),
	}
}

// DecisionsSave appends a batch to the ledger.
func DecisionsSave(svc decisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "decisions service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body DecisionsSaveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Save(r.Context(), ledgerActor(r), body.Decisions, body.IsFinal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OldOrders returns the caller's archived ledger rows.
func OldOrders(svc decisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "decisions service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.OldOrders(r.Context(), ledgerActor(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// SupplierQueue returns draft seller confirmations awaiting the supplier.
func SupplierQueue(svc decisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "decisions service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.SupplierQueue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AcceptedReturned returns the audit trail of one campaign.
func AcceptedReturned(svc decisions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "decisions service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := campaignIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.AcceptedReturned(r.Context(), campaignID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
