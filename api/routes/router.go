package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nurulloasawear/order-app/api/controllers"
	"github.com/nurulloasawear/order-app/api/middleware"
	"github.com/nurulloasawear/order-app/internal/auth"
	"github.com/nurulloasawear/order-app/internal/campaigns"
	"github.com/nurulloasawear/order-app/internal/dailyorders"
	"github.com/nurulloasawear/order-app/internal/decisions"
	"github.com/nurulloasawear/order-app/internal/platform"
	"github.com/nurulloasawear/order-app/internal/returns"
	"github.com/nurulloasawear/order-app/internal/users"
	"github.com/nurulloasawear/order-app/pkg/auth/session"
	"github.com/nurulloasawear/order-app/pkg/config"
	"github.com/nurulloasawear/order-app/pkg/enums"
	"github.com/nurulloasawear/order-app/pkg/logger"
	"github.com/nurulloasawear/order-app/pkg/manifest"
	"github.com/nurulloasawear/order-app/pkg/metrics"
	"github.com/nurulloasawear/order-app/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Sessions    session.Resolver
	Maintenance *platform.MaintenanceState
	Artifacts   *manifest.Store

	Auth        auth.Service
	Users       users.Service
	Campaigns   campaigns.Service
	DailyOrders dailyorders.Service
	Returns     returns.Service
	Decisions   decisions.Service
}

// NewRouter assembles the full HTTP surface.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(cfg.Service.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(d.DB, d.Redis, logg))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).
			Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// The gate sits after Auth so the role is known and admins pass;
		// login stays outside it so an admin can still sign in to lift it.
		r.Use(middleware.Auth(d.Sessions, d.Users, logg))
		r.Use(middleware.Maintenance(d.Maintenance, logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Get("/campaigns", controllers.CampaignsList(d.Campaigns, logg))
		r.Get("/orders/{campaignID}", controllers.OrdersList(d.Campaigns, logg))
		r.Get("/orders/{campaignID}/cancelled", controllers.CancelledOrdersList(d.Campaigns, logg))
		r.Get("/orders/old", controllers.OldOrders(d.Decisions, logg))
		r.Get("/stats/orders", controllers.OrderStats(d.Campaigns, logg))
		r.Get("/stats/sales", controllers.SalesChart(d.Campaigns, logg))

		r.Get("/daily-orders/{campaignID}", controllers.DailyOrdersList(d.DailyOrders, logg))
		r.With(middleware.RequireRole(logg, enums.UserRoleSeller, enums.UserRoleSupplier)).
			Post("/daily-orders/decision", controllers.DailyOrderDecision(d.DailyOrders, logg))

		r.With(middleware.RequireRole(logg, enums.UserRoleSeller, enums.UserRoleSupplier)).
			Post("/decisions", controllers.DecisionsSave(d.Decisions, logg))

		r.Route("/supplier", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleSupplier))
			r.Get("/orders", controllers.SupplierQueue(d.Decisions, logg))
			r.Get("/returned-orders", controllers.SupplierReturnedOrders(d.Returns, logg))
			r.Post("/returns/accept", controllers.SupplierReturnAccept(d.Returns, logg))
			r.Post("/returns/deliver", controllers.SupplierReturnDeliver(d.Returns, logg))
		})

		r.Route("/seller", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleSeller))
			r.Get("/returned-orders", controllers.SellerReturnedOrders(d.Returns, logg))
			r.Post("/returns/accept", controllers.SellerReturnAccept(d.Returns, logg))
		})

		r.Get("/artifacts/{name}", controllers.ArtifactDownload(d.Artifacts, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(d.Sessions, d.Users, logg))
		r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUsersList(d.Users, logg))
			r.Post("/", controllers.AdminUserCreate(d.Users, logg))
			r.Put("/{username}", controllers.AdminUserUpdate(d.Users, logg))
			r.Post("/{username}/reset-password", controllers.AdminResetPassword(d.Users, logg))
		})
		r.Get("/accepted-returned/{campaignID}", controllers.AcceptedReturned(d.Decisions, logg))
		r.Post("/maintenance", controllers.AdminMaintenanceToggle(d.Maintenance, logg))
		r.Get("/reports/excel", controllers.AdminReportExcel(d.Users, logg))
	})

	return r
}
