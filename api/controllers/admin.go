package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nurulloasawear/order-app/api/responses"
	"github.com/nurulloasawear/order-app/api/validators"
	"github.com/nurulloasawear/order-app/internal/platform"
	"github.com/nurulloasawear/order-app/internal/users"
	"github.com/nurulloasawear/order-app/pkg/enums"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
	"github.com/nurulloasawear/order-app/pkg/report"
)

// AdminCreateUserRequest is the admin create-user payload.
type AdminCreateUserRequest struct {
	Username       string  `json:"username" validate:"required"`
	Password       string  `json:"password" validate:"required"`
	Role           string  `json:"role" validate:"required"`
	APIKey         *string `json:"api_key,omitempty"`
	AssignedStores []int64 `json:"assigned_stores,omitempty"`
}

// AdminUpdateUserRequest carries optional field changes; omitted fields are
// left untouched.
type AdminUpdateUserRequest struct {
	Password       *string  `json:"password,omitempty"`
	Role           *string  `json:"role,omitempty"`
	APIKey         *string  `json:"api_key,omitempty"`
	AssignedStores *[]int64 `json:"assigned_stores,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
}

// AdminMaintenanceRequest toggles the maintenance gate.
type AdminMaintenanceRequest struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message,omitempty"`
}

// AdminUsersList returns every account with its processed counter.
func AdminUsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.ListUsers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// AdminUserCreate provisions a new account.
func AdminUserCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body AdminCreateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.CreateUser(r.Context(), users.CreateUserInput{
			Username:       body.Username,
			Password:       body.Password,
			Role:           enums.UserRole(body.Role),
			APIKey:         body.APIKey,
			AssignedStores: body.AssignedStores,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// AdminUserUpdate applies partial changes to an account.
func AdminUserUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body AdminUpdateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := users.UpdateUserInput{
			Password:       body.Password,
			APIKey:         body.APIKey,
			AssignedStores: body.AssignedStores,
			IsActive:       body.IsActive,
		}
		if body.Role != nil {
			role := enums.UserRole(*body.Role)
			input.Role = &role
		}

		user, err := svc.UpdateUser(r.Context(), chi.URLParam(r, "username"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// AdminResetPassword issues a temporary password for the account.
func AdminResetPassword(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		temp, err := svc.ResetPassword(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"temporary_password": temp})
	}
}

// AdminMaintenanceToggle flips the maintenance gate and reports the prior state.
func AdminMaintenanceToggle(state *platform.MaintenanceState, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if state == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "maintenance state unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body AdminMaintenanceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		previous := state.Set(body.Enabled, body.Message)
		responses.WriteSuccess(w, map[string]bool{
			"enabled":  body.Enabled,
			"previous": previous,
		})
	}
}

// AdminReportExcel streams the per-user tallies workbook.
func AdminReportExcel(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tallies, err := svc.ReportTallies(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buf, err := report.BuildUserTallies(tallies)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build report"))
			return
		}

		filename := "user_report_" + time.Now().UTC().Format("2006-01-02") + ".xlsx"
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		if _, err := buf.WriteTo(w); err != nil && logg != nil {
			logg.Error(r.Context(), "admin.report.stream_failed", err)
		}
	}
}
