package controllers

import (
	"net/http"

	"github.com/nurulloasawear/order-app/api/middleware"
	"github.com/nurulloasawear/order-app/api/responses"
	"github.com/nurulloasawear/order-app/internal/campaigns"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
)

func campaignActor(r *http.Request) campaigns.Actor {
	ctx := r.Context()
	return campaigns.Actor{
		Username:       middleware.UsernameFromContext(ctx),
		Role:           middleware.RoleFromContext(ctx),
		AssignedStores: middleware.AssignedStoresFromContext(ctx),
	}
}

// CampaignsList returns the stores visible to the caller.
func CampaignsList(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListCampaigns(r.Context(), campaignActor(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// OrdersList returns the PROCESSING order lines of one campaign.
func OrdersList(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := campaignIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.Orders(r.Context(), campaignID, campaignActor(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lines)
	}
}

// CancelledOrdersList returns the role-specific cancelled view of one campaign.
func CancelledOrdersList(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		campaignID, err := campaignIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Cancelled(r.Context(), campaignID, campaignActor(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderStats aggregates per-status counts across the caller's campaigns.
func OrderStats(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.OrderStats(r.Context(), campaignActor(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// SalesChart returns per-day delivered sums for the requested window.
func SalesChart(svc campaigns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "campaigns service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := r.URL.Query().Get("filter")
		if filter == "" {
			filter = campaigns.SalesFilterWeek
		}

		chart, err := svc.SalesChart(r.Context(), campaignActor(r), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, chart)
	}
}
