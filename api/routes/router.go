package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gaslink/gaslink-backend/api/controllers"
	"github.com/gaslink/gaslink-backend/api/middleware"
	"github.com/gaslink/gaslink-backend/internal/admin"
	"github.com/gaslink/gaslink-backend/internal/auth"
	"github.com/gaslink/gaslink-backend/internal/catalog"
	"github.com/gaslink/gaslink-backend/internal/inquiries"
	"github.com/gaslink/gaslink-backend/internal/notifications"
	"github.com/gaslink/gaslink-backend/internal/requests"
	"github.com/gaslink/gaslink-backend/internal/stores"
	"github.com/gaslink/gaslink-backend/internal/users"
	"github.com/gaslink/gaslink-backend/pkg/auth/session"
	"github.com/gaslink/gaslink-backend/pkg/config"
	"github.com/gaslink/gaslink-backend/pkg/db"
	"github.com/gaslink/gaslink-backend/pkg/logger"
	"github.com/gaslink/gaslink-backend/pkg/maps"
	"github.com/gaslink/gaslink-backend/pkg/metrics"
	"github.com/gaslink/gaslink-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    sessionManager
	HTTPMetrics *metrics.HTTPMetrics
	Maps        *maps.Client

	OTP           auth.OTPService
	Auth          auth.Service
	Users         users.Service
	Stores        stores.Service
	Catalog       catalog.Service
	Requests      requests.Service
	Inquiries     inquiries.Service
	Notifications notifications.Service
	Admin         admin.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.HTTPMetrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	otpPolicy := middleware.NewAuthRateLimitPolicy(
		"otp",
		cfg.AuthRateLimit.OTPWindow,
		cfg.AuthRateLimit.OTPIPLimit,
		cfg.AuthRateLimit.OTPPhoneLimit,
	)
	adminLoginPolicy := middleware.NewAuthRateLimitPolicy(
		"admin-login",
		cfg.AuthRateLimit.AdminLoginWindow,
		cfg.AuthRateLimit.AdminLoginIPLimit,
		cfg.AuthRateLimit.AdminLoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(otpPolicy, deps.Redis, logg)).Post("/otp/start", controllers.OTPStart(deps.OTP, logg))
		r.With(middleware.AuthRateLimit(otpPolicy, deps.Redis, logg)).Post("/otp/verify", controllers.OTPVerify(deps.OTP, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(adminLoginPolicy, deps.Redis, logg)).Post("/login", controllers.AdminAuthLogin(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Get("/me", controllers.MeGet(deps.Users, logg))
		r.Patch("/me", controllers.MePatch(deps.Users, logg))

		r.Route("/stores", func(r chi.Router) {
			r.Post("/", controllers.StoreCreate(deps.Stores, logg))
			r.Get("/", controllers.StoreListMine(deps.Stores, logg))
			r.Post("/{storeId}/default", controllers.StoreSetDefault(deps.Stores, logg))
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", controllers.ServiceList(deps.Catalog, logg))
			r.Get("/{serviceId}", controllers.ServiceGet(deps.Catalog, logg))
		})

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", controllers.RequestCreate(deps.Requests, logg))
			r.Get("/", controllers.RequestList(deps.Requests, logg))
			r.Get("/{requestId}", controllers.RequestDetail(deps.Requests, logg))
			r.Put("/{requestId}/details", controllers.RequestUpdateDetails(deps.Requests, logg))
			r.Post("/{requestId}/cancel", controllers.RequestCancel(deps.Requests, logg))
		})

		r.Route("/inquiries", func(r chi.Router) {
			r.Post("/", controllers.InquiryCreate(deps.Inquiries, logg))
			r.Get("/", controllers.InquiryListMine(deps.Inquiries, logg))
			r.Get("/{inquiryId}", controllers.InquiryDetail(deps.Inquiries, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Get("/unread-count", controllers.NotificationUnreadCount(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})

		r.Route("/maps", func(r chi.Router) {
			r.Get("/search", controllers.MapsSearch(deps.Maps, logg))
			r.Get("/reverse", controllers.MapsReverse(deps.Maps, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Get("/ping", controllers.AdminPing())
		r.Get("/dashboard", controllers.AdminDashboard(deps.Admin, logg))

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", controllers.AdminRequestList(deps.Admin, logg))
			r.Get("/{requestId}", controllers.AdminRequestDetail(deps.Requests, logg))
			r.Post("/{requestId}/start", controllers.AdminRequestStart(deps.Requests, logg))
			r.Post("/{requestId}/complete", controllers.AdminRequestComplete(deps.Requests, logg))
		})

		r.Route("/inquiries", func(r chi.Router) {
			r.Get("/", controllers.AdminInquiryList(deps.Inquiries, logg))
			r.Get("/{inquiryId}", controllers.AdminInquiryDetail(deps.Inquiries, logg))
			r.Post("/{inquiryId}/responses", controllers.AdminInquiryRespond(deps.Inquiries, logg))
			r.Post("/{inquiryId}/status", controllers.AdminInquirySetStatus(deps.Inquiries, logg))
		})

		r.Get("/stores", controllers.AdminStoreList(deps.Admin, logg))
		r.Get("/users", controllers.AdminUserList(deps.Admin, logg))
	})

	return r
}
