package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
)

// campaignIDParam parses the {campaignID} route segment.
func campaignIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "campaignID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "campaign id must be a positive integer")
	}
	return id, nil
}

// campaignIDQuery parses the campaign_id query parameter.
func campaignIDQuery(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("campaign_id")
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "campaign_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "campaign_id must be a positive integer")
	}
	return id, nil
}
