package routes

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/seqel-esports/handlers"
	"github.com/Dosada05/seqel-esports/middleware"
	"github.com/Dosada05/seqel-esports/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Home        http.HandlerFunc
	Health      *handlers.HealthHandler
	Admin       *handlers.AdminHandler
	School      *handlers.SchoolHandler
	Student     *handlers.StudentHandler
	Points      *handlers.PointsHandler
	Game        *handlers.GameHandler
	Schedule    *handlers.ScheduleHandler
	Settings    *handlers.SettingsHandler
	Import      *handlers.ImportHandler
	Maintenance *handlers.MaintenanceHandler
	Sponsor     *handlers.SponsorHandler
	Match       *handlers.MatchHandler
	Board       *handlers.BoardHandler
}

func SetupRoutes(router chi.Router, h Handlers, corsOrigins []string, logger *slog.Logger) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)

	router.Get("/", h.Home)
	router.Get("/health", h.Health.Health)
	router.Get(services.SponsorURLPrefix+"/*", h.Sponsor.Files)

	router.Route("/logger", func(r chi.Router) {
		r.Get("/", h.Match.Page)
		r.Post("/submit", h.Match.Submit)
		r.Post("/finalize", h.Match.Finalize)
		r.Post("/matches/{matchID}/cancel", h.Match.Cancel)
	})

	router.Get("/boards/students", h.Board.StudentsPage)

	router.Route("/admin", func(r chi.Router) {
		r.Get("/", h.Admin.Home)
		r.Post("/seed", h.Admin.Seed)

		r.Get("/schools", h.School.Page)
		r.Post("/schools", h.School.Create)

		r.Get("/students", h.Student.Page)
		r.Post("/students", h.Student.Create)
		r.Post("/students/{studentID}/flags", h.Student.SetFlag)

		r.Get("/points", h.Points.Page)
		r.Post("/points/add", h.Points.Add)
		r.Post("/points/override", h.Points.Override)

		r.Get("/games", h.Game.Page)
		r.Post("/games", h.Game.Create)

		r.Get("/rounds", h.Schedule.RoundsPage)
		r.Post("/rounds", h.Schedule.AddRound)
		r.Get("/areas", h.Schedule.AreasPage)
		r.Post("/areas", h.Schedule.AddArea)

		r.Get("/settings", h.Settings.Page)
		r.Post("/settings", h.Settings.Save)

		r.Get("/upload", h.Import.Page)
		r.Post("/upload", h.Import.Upload)

		r.Get("/maintenance", h.Maintenance.Page)
		r.Post("/maintenance/reset", h.Maintenance.Reset)

		r.Get("/sponsors", h.Sponsor.Page)
		r.Post("/sponsors", h.Sponsor.Upload)
		r.Post("/sponsors/delete", h.Sponsor.Delete)
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/stats", h.Admin.Stats)

		r.Get("/schools", h.School.List)
		r.Post("/students", h.Student.CreateStudent)
		r.Get("/students/{studentID}", h.Student.GetStudent)

		r.Get("/games", h.Game.ListGames)
		r.Post("/games", h.Game.CreateGame)
		r.Get("/rounds", h.Schedule.ListRounds)

		r.Get("/points", h.Points.ListEntries)
		r.Put("/points/{code}", h.Points.UpdateEntry)

		r.Get("/matches", h.Match.RecentMatches)
		r.Post("/matches", h.Match.CreateMatch)
		r.Post("/finals/finalize", h.Match.FinalizeFinals)

		r.Route("/boards", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: corsOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))
			r.Get("/students", h.Board.Students)
			r.Get("/schools", h.Board.Schools)
			r.Get("/sponsors", h.Sponsor.List)
		})
	})
}
