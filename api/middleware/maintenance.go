package middleware

import (
	"net/http"

	"github.com/nurulloasawear/order-app/api/responses"
	"github.com/nurulloasawear/order-app/pkg/enums"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
)

// MaintenanceGate reports whether the system is locked for non-admin traffic.
type MaintenanceGate interface {
	Enabled() bool
}

// Maintenance returns 423 for seller and supplier requests while the
// maintenance flag is set. Admins pass through so they can turn it off.
func Maintenance(gate MaintenanceGate, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate != nil && gate.Enabled() && RoleFromContext(r.Context()) != enums.UserRoleAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeLocked, "service is under maintenance"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
