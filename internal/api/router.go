package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ray/bizdesk/internal/api/handlers"
	"github.com/ray/bizdesk/internal/api/middleware"
	"github.com/ray/bizdesk/internal/config"
	"github.com/ray/bizdesk/internal/repository"
	"github.com/ray/bizdesk/internal/service"
	"github.com/ray/bizdesk/internal/websocket"
	"github.com/rs/zerolog"
)

func NewRouter(services *service.Services, hub *websocket.Hub, repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth, cfg, log)
	customerHandler := handlers.NewCustomerHandler(repos.Customer, hub, log)
	productHandler := handlers.NewProductHandler(services.Product, hub, log)
	appointmentHandler := handlers.NewAppointmentHandler(repos.Appointment, repos.Customer, hub, log)
	invoiceHandler := handlers.NewInvoiceHandler(services.Invoice, hub, log)
	promotionHandler := handlers.NewPromotionHandler(repos.Promotion, hub, log)
	settingsHandler := handlers.NewSettingsHandler(repos.Setting, hub, log)
	backupHandler := handlers.NewBackupHandler(services.Backup, log)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth, log)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth, log))
				r.Get("/me", authHandler.CurrentUser)
				r.Post("/ws-ticket", authHandler.WSTicket)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth, log))

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customerHandler.List)
				r.Post("/", customerHandler.Create)
				r.Get("/{id}", customerHandler.Get)
				r.Put("/{id}", customerHandler.Update)
				r.Delete("/{id}", customerHandler.Delete)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.List)
				r.Post("/", productHandler.Create)
				r.Get("/{id}", productHandler.Get)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
				r.Post("/{id}/stock", productHandler.AdjustStock)
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", appointmentHandler.List)
				r.Post("/", appointmentHandler.Create)
				r.Get("/{id}", appointmentHandler.Get)
				r.Put("/{id}", appointmentHandler.Update)
				r.Delete("/{id}", appointmentHandler.Delete)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", invoiceHandler.List)
				r.Post("/", invoiceHandler.Create)
				r.Get("/{id}", invoiceHandler.Get)
				r.Put("/{id}/items", invoiceHandler.UpdateItems)
				r.Put("/{id}/status", invoiceHandler.SetStatus)
				r.Delete("/{id}", invoiceHandler.Delete)
			})

			r.Route("/promotions", func(r chi.Router) {
				r.Get("/", promotionHandler.List)
				r.Post("/", promotionHandler.Create)
				r.Get("/{id}", promotionHandler.Get)
				r.Put("/{id}", promotionHandler.Update)
				r.Delete("/{id}", promotionHandler.Delete)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", settingsHandler.List)
				r.Get("/{key}", settingsHandler.Get)
				r.Put("/{key}", settingsHandler.Upsert)
				r.Delete("/{key}", settingsHandler.Delete)
			})

			r.Route("/backups", func(r chi.Router) {
				r.Get("/", backupHandler.List)
				r.Post("/", backupHandler.Create)
				r.Get("/{name}", backupHandler.Download)
			})
		})

		// WebSocket endpoint; authenticated by ticket query parameter
		r.Get("/ws", wsHandler.Connect)
	})

	return r
}
