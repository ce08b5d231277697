package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/findosh/tourdesk/internal/middleware"
	"github.com/findosh/tourdesk/internal/models"
	"github.com/findosh/tourdesk/internal/permissions"
)

// NewRouter wires every route. clients attaches the per-client session
// store to all /api requests.
func (h *Handler) NewRouter(clients *middleware.Clients) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(h.log))
	r.Use(middleware.Logger(h.log))
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{middleware.ClientTokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)

	guard := h.guard
	can := guard.RequireCapability

	r.Route("/api", func(r chi.Router) {
		r.Use(clients.Attach)

		// Public: the client store exists for every caller
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/session", h.GetSession)
		r.Post("/session/actions", h.SessionAction)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireSession)

			r.Get("/permissions", h.Permissions)
			r.Get("/navigation", h.Navigation)

			r.Get("/profile", h.GetProfile)
			r.Put("/profile/password", h.ChangePassword)

			r.Route("/news", func(r chi.Router) {
				r.Get("/", h.ListNews)
				r.With(can(permissions.CanCreate)).Post("/", h.CreateNews)
				r.With(can(permissions.CanExport)).Get("/export.csv", h.ExportNews)
				r.Get("/{id}", h.GetNews)
				r.With(can(permissions.CanEdit)).Put("/{id}", h.UpdateNews)
				r.With(can(permissions.CanDelete)).Delete("/{id}", h.DeleteNews)
			})

			r.Route("/notices", func(r chi.Router) {
				r.Get("/", h.ListNotices)
				r.With(can(permissions.CanCreate)).Post("/", h.CreateNotice)
				r.With(can(permissions.CanExport)).Get("/export.csv", h.ExportNotices)
				r.Get("/{id}", h.GetNotice)
				r.With(can(permissions.CanEdit)).Put("/{id}", h.UpdateNotice)
				r.With(can(permissions.CanDelete)).Delete("/{id}", h.DeleteNotice)
			})

			r.Route("/places", func(r chi.Router) {
				r.Get("/", h.ListPlaces)
				r.With(can(permissions.CanCreate)).Post("/", h.CreatePlace)
				r.Get("/{id}", h.GetPlace)
				r.With(can(permissions.CanEdit)).Put("/{id}", h.UpdatePlace)
				r.With(can(permissions.CanDelete)).Delete("/{id}", h.DeletePlace)
			})

			r.Route("/activities", func(r chi.Router) {
				r.Get("/", h.ListActivities)
				r.With(can(permissions.CanCreate)).Post("/", h.CreateActivity)
				r.Get("/{id}", h.GetActivity)
				r.With(can(permissions.CanEdit)).Put("/{id}", h.UpdateActivity)
				r.With(can(permissions.CanDelete)).Delete("/{id}", h.DeleteActivity)
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", h.ListEvents)
				r.With(can(permissions.CanCreate)).Post("/", h.CreateEvent)
				r.With(can(permissions.CanExport)).Get("/export.csv", h.ExportEvents)
				r.Get("/{id}", h.GetEvent)
				r.With(can(permissions.CanEdit)).Put("/{id}", h.UpdateEvent)
				r.With(can(permissions.CanDelete)).Delete("/{id}", h.DeleteEvent)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.ListNotifications)
				r.With(can(permissions.CanCreate)).Post("/", h.CreateNotification)
				r.Get("/{id}", h.GetNotification)
				r.With(can(permissions.CanEdit)).Put("/{id}", h.UpdateNotification)
				r.With(can(permissions.CanEdit)).Post("/{id}/send", h.SendNotification)
				r.With(can(permissions.CanDelete)).Delete("/{id}", h.DeleteNotification)
			})

			r.Get("/settings", h.GetSettings)
			r.With(guard.RequireRole(models.RoleAdmin)).Put("/settings", h.UpdateSettings)

			r.Route("/users", func(r chi.Router) {
				r.Use(can(permissions.CanManageUsers))
				r.Get("/", h.ListUsers)
				r.Post("/", h.CreateUser)
				r.Put("/{id}", h.UpdateUser)
				r.Delete("/{id}", h.DeactivateUser)
			})

			r.With(can(permissions.CanViewAnalytics)).Get("/analytics/kpis", h.KPIs)
		})
	})

	return r
}
