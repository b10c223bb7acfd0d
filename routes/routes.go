package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/psf-initiatives/admin-api/app"
	appmw "github.com/psf-initiatives/admin-api/middleware"
	"github.com/psf-initiatives/admin-api/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", deps.Health.HandleRoot)
	r.Get("/health", deps.Health.HandleHealth)
	r.Get("/readyz", deps.Health.HandleReadiness)

	authMW := deps.AuthMiddleware
	adminOnly := chi.Chain(authMW.RequireAuth, authMW.RequireAdmin)
	loginLimit := appmw.RateLimit(cfg.RateLimit.Login)
	formLimit := appmw.RateLimit(cfg.RateLimit.PublicForm)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			h := deps.Auth
			r.With(loginLimit).Post("/login", h.HandleLogin)
			r.With(loginLimit).Post("/create-superadmin", h.HandleCreateSuperadmin)
			r.Post("/logout", h.HandleLogout)
			r.Post("/refresh", h.HandleRefresh)

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAuth)
				r.Get("/me", h.HandleMe)
				r.Post("/verify-token", h.HandleVerifyToken)
				r.Post("/validate-token", h.HandleValidateToken)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAuth, authMW.RequireSuperadmin)
				r.Post("/register", h.HandleRegister)
				r.Get("/admins", h.HandleListAdmins)
				r.Patch("/admins/{id}/toggle-status", h.HandleToggleStatus)
				r.Delete("/admins/{id}", h.HandleDeleteAdmin)
			})
		})

		r.Route("/donations", func(r chi.Router) {
			h := deps.Donations
			r.With(formLimit).Post("/", h.HandleCreate)
			r.With(formLimit).Post("/upload-receipt", h.HandleUploadReceipt)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly...)
				r.Get("/", h.HandleList)
				r.Get("/export", h.HandleExport)
				r.Get("/stats/total", h.HandleStats)
				r.Get("/email/{email}", h.HandleListByEmail)
				r.Get("/{id}", h.HandleGet)
				r.Put("/{id}", h.HandleUpdate)
				r.Delete("/{id}", h.HandleDelete)
				r.Post("/{id}/verify", h.HandleVerify)
				r.Post("/{id}/reject", h.HandleReject)
			})
		})

		r.Route("/subscribers", func(r chi.Router) {
			h := deps.Subscribers
			r.With(formLimit).Post("/", h.HandleSubscribe)
			r.With(formLimit).Post("/unsubscribe", h.HandleUnsubscribe)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly...)
				r.Get("/", h.HandleList)
				r.Get("/stats/summary", h.HandleStats)
				r.Get("/{id}", h.HandleGet)
				r.Put("/{id}", h.HandleUpdate)
				r.Delete("/{id}", h.HandleDelete)
			})
		})

		r.Route("/volunteers", func(r chi.Router) {
			h := deps.Volunteers
			r.With(formLimit).Post("/", h.HandleCreate)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly...)
				r.Get("/", h.HandleList)
				r.Get("/stats/total", h.HandleStats)
				r.Get("/{id}", h.HandleGet)
				r.Delete("/{id}", h.HandleDelete)
			})
		})

		// Admin only from here on
		r.Group(func(r chi.Router) {
			r.Use(adminOnly...)

			r.Route("/donors", func(r chi.Router) {
				h := deps.Donors
				r.Post("/", h.HandleCreate)
				r.Get("/", h.HandleList)
				r.Get("/{id}", h.HandleGet)
				r.Delete("/{id}", h.HandleDelete)
			})

			r.Route("/newsletters", func(r chi.Router) {
				h := deps.Newsletters
				r.Post("/", h.HandleCreate)
				r.Get("/", h.HandleList)
				r.Get("/{id}", h.HandleGet)
				r.Put("/{id}", h.HandleUpdate)
				r.Delete("/{id}", h.HandleDelete)
				r.Post("/{id}/send", h.HandleSend)
			})

			r.Route("/email-templates", func(r chi.Router) {
				h := deps.Templates
				r.Post("/", h.HandleCreate)
				r.Get("/", h.HandleList)
				r.Get("/{id}", h.HandleGet)
				r.Put("/{id}", h.HandleUpdate)
				r.Delete("/{id}", h.HandleDelete)
			})

			r.Route("/dashboard", func(r chi.Router) {
				h := deps.Dashboard
				r.Get("/", h.HandleStats)
				r.Get("/recent-donations", h.HandleRecentDonations)
				r.Get("/summary", h.HandleSummary)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}
