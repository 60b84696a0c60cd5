package router

import (
	"net/http"
	"time"

	"cms-admin/internal/config"
	"cms-admin/internal/handlers"
	"cms-admin/internal/middleware"
	"cms-admin/internal/repository"
	"cms-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Cfg        config.Config
	Log        zerolog.Logger
	Users      repository.UserRepository
	Complaints repository.ComplaintRepository
	Pages      repository.PageRepository
	Posts      repository.PostRepository
	Categories repository.CategoryRepository
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// RequestID must run before RequestLogger so the logger can pick the id
	// out of the request context.
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Recoverer(d.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{d.Cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.WithAuth(d.Log, d.Cfg))

	auth := handlers.NewAuthHTTP(service.NewAuthService(d.Users, d.Cfg.SessionSecret), d.Users)
	users := handlers.NewUserHTTP(d.Users)
	complaints := handlers.NewComplaintHTTP(d.Complaints)
	reports := handlers.NewReportHTTP(d.Complaints, d.Log)
	exports := handlers.NewExportHTTP(d.Complaints)
	content := handlers.NewContentHTTP(d.Pages, d.Posts, d.Categories)

	r.Get("/healthz", handlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register())
			r.Post("/login", auth.Login())
			r.Post("/logout", auth.Logout())
			r.With(middleware.RequireAuth).Get("/me", auth.Me())
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.With(middleware.RequireRoles("admin")).Get("/", users.List())
			r.With(middleware.RequireRoles("admin")).Patch("/{id}/role", users.UpdateRole())
			r.With(middleware.RequireRoles("admin")).Patch("/{id}/active", users.SetActive())
			r.With(middleware.RequireSelfOrRoles("admin")).Patch("/{id}", users.UpdateBasic())
			r.With(middleware.RequireSelfOrRoles("admin")).Patch("/{id}/password", users.UpdatePassword())
		})

		r.Route("/complaints", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", complaints.List())
			r.Get("/metrics", reports.Metrics())
			r.Get("/breakdown", reports.Breakdown())
			r.Get("/export", exports.Export())
			r.Get("/{id}", complaints.Get())

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles("agent", "supervisor", "admin"))
				r.Post("/", complaints.Create())
				r.Post("/{id}/status", complaints.UpdateStatus())
				r.Post("/{id}/assign", complaints.Assign())
				r.Post("/{id}/notes", complaints.AddNote())
			})
		})

		r.Route("/pages", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", content.ListPages())
			r.Get("/{id}", content.GetPage())
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles("editor", "admin"))
				r.Post("/", content.CreatePage())
				r.Put("/{id}", content.UpdatePage())
				r.Delete("/{id}", content.DeletePage())
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", content.ListPosts())
			r.Get("/{id}", content.GetPost())
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles("editor", "admin"))
				r.Post("/", content.CreatePost())
				r.Put("/{id}", content.UpdatePost())
				r.Delete("/{id}", content.DeletePost())
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", content.ListCategories())
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles("editor", "admin"))
				r.Post("/", content.CreateCategory())
				r.Delete("/{id}", content.DeleteCategory())
			})
		})
	})

	return r
}
