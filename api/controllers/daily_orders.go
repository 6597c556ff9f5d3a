package controllers

import (
	"net/http"

	"github.com/nurulloasawear/order-app/api/middleware"
	"github.com/nurulloasawear/order-app/api/responses"
	"github.com/nurulloasawear/order-app/api/validators"
	"github.com/nurulloasawear/order-app/internal/dailyorders"
	"github.com/nurulloasawear/order-app/pkg/enums"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
)

// DailyOrderDecisionRequest is the submit-decision payload.
type DailyOrderDecisionRequest struct {
	OrderID            string  `json:"order_id" validate:"required"`
	CampaignID         int64   `json:"campaign_id" validate:"required"`
	Decision           string  `json:"decision" validate:"required"`
	AlternativeProduct *string `json:"alternative_product,omitempty"`
}

// DailyOrdersList overlays stored decisions onto the campaign's live orders.
func DailyOrdersList(svc dailyorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "daily orders service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := campaignIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		entries, err := svc.ListDaily(ctx, campaignID,
			middleware.UsernameFromContext(ctx),
			middleware.RoleFromContext(ctx),
			middleware.AssignedStoresFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// DailyOrderDecision records one role-scoped decision and returns the merged row.
func DailyOrderDecision(svc dailyorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "daily orders service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body DailyOrderDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		row, err := svc.SubmitDecision(ctx, dailyorders.SubmitDecisionInput{
			OrderID:            body.OrderID,
			CampaignID:         body.CampaignID,
			Username:           middleware.UsernameFromContext(ctx),
			Role:               middleware.RoleFromContext(ctx),
			Decision:           enums.Decision(body.Decision),
			AlternativeProduct: body.AlternativeProduct,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}
