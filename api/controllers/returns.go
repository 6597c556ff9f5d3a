package controllers

import (
	"net/http"

	"github.com/nurulloasawear/order-app/api/middleware"
	"github.com/nurulloasawear/order-app/api/responses"
	"github.com/nurulloasawear/order-app/api/validators"
	"github.com/nurulloasawear/order-app/internal/returns"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
)

// ReturnAcceptRequest is the supplier-accept payload. The product snapshot
// is optional and carried into the later manifests.
type ReturnAcceptRequest struct {
	OrderID     string `json:"order_id" validate:"required"`
	CampaignID  int64  `json:"campaign_id" validate:"required"`
	ProductName string `json:"product_name"`
	SKU         string `json:"sku"`
	Quantity    int    `json:"quantity"`
}

// ReturnTransitionRequest identifies the return row a deliver/accept acts on.
type ReturnTransitionRequest struct {
	OrderID    string `json:"order_id" validate:"required"`
	CampaignID int64  `json:"campaign_id" validate:"required"`
}

// SupplierReturnedOrders lists cancelled orders overlaid with return state.
func SupplierReturnedOrders(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := campaignIDQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		entries, err := svc.ListForSupplier(ctx, campaignID, middleware.UsernameFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// SupplierReturnAccept marks a returned order as accepted by the supplier.
func SupplierReturnAccept(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body ReturnAcceptRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		row, err := svc.SupplierAccept(ctx, returns.AcceptInput{
			OrderID:     body.OrderID,
			CampaignID:  body.CampaignID,
			Username:    middleware.UsernameFromContext(ctx),
			ProductName: body.ProductName,
			SKU:         body.SKU,
			Quantity:    body.Quantity,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// SupplierReturnDeliver marks an accepted return as handed over.
func SupplierReturnDeliver(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body ReturnTransitionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		result, err := svc.SupplierDeliver(ctx, returns.TransitionInput{
			OrderID:    body.OrderID,
			CampaignID: body.CampaignID,
			Username:   middleware.UsernameFromContext(ctx),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SellerReturnedOrders lists delivered returns awaiting the seller.
func SellerReturnedOrders(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := campaignIDQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		entries, err := svc.ListForSeller(ctx, campaignID,
			middleware.UsernameFromContext(ctx),
			middleware.AssignedStoresFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// SellerReturnAccept closes the return loop on the seller side.
func SellerReturnAccept(svc returns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "returns service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body ReturnTransitionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		result, err := svc.SellerAccept(ctx, returns.TransitionInput{
			OrderID:    body.OrderID,
			CampaignID: body.CampaignID,
			Username:   middleware.UsernameFromContext(ctx),
		}, middleware.AssignedStoresFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
