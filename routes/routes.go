package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hoopstack/hoops-manager/handlers"
	"github.com/hoopstack/hoops-manager/middleware"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Tournament  *handlers.TournamentHandler
	Team        *handlers.TeamHandler
	Player      *handlers.PlayerHandler
	Match       *handlers.MatchHandler
	PlayerStats *handlers.PlayerStatsHandler
	Access      *handlers.AccessHandler
	Import      *handlers.ImportHandler
	Reporting   *handlers.ReportingHandler
}

func SetupRoutes(h Handlers, jwtSecret string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/users/me", h.Auth.Me)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.List)
			r.Post("/", h.Tournament.Create)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", h.Tournament.GetByID)
				r.Put("/", h.Tournament.Update)
				r.Delete("/", h.Tournament.Delete)

				r.Get("/teams", h.Team.ListByTournament)
				r.Post("/teams", h.Team.Create)

				r.Get("/matches", h.Match.ListByTournament)
				r.Post("/matches", h.Match.Create)

				r.Route("/access", func(r chi.Router) {
					r.Get("/", h.Access.List)
					r.Post("/", h.Access.Grant)
					r.Delete("/{userID}", h.Access.Revoke)
				})

				r.Route("/reports", func(r chi.Router) {
					r.Get("/standings", h.Reporting.Standings)
					r.Get("/points-distribution", h.Reporting.PointsDistribution)
					r.Get("/top-scorers", h.Reporting.TopScorers)
					r.Get("/efficiency-leaders", h.Reporting.EfficiencyLeaders)
					r.Get("/match-trend", h.Reporting.MatchTrend)
					r.Get("/double-leaders", h.Reporting.DoubleLeaders)
					r.Get("/team-records", h.Reporting.TeamRecords)
					r.Get("/dashboard", h.Reporting.Dashboard)
				})
			})
		})

		r.Route("/teams/{teamID}", func(r chi.Router) {
			r.Get("/", h.Team.GetByID)
			r.Put("/", h.Team.Update)
			r.Delete("/", h.Team.Delete)

			r.Get("/players", h.Player.ListByTeam)
			r.Post("/players", h.Player.Create)
		})

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/", h.Player.GetByID)
			r.Put("/", h.Player.Update)
			r.Delete("/", h.Player.Delete)

			r.Get("/stats", h.PlayerStats.ListByPlayer)
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", h.Match.GetByID)
			r.Put("/", h.Match.Update)
			r.Delete("/", h.Match.Delete)

			r.Put("/score", h.Match.SetScore)
			r.Delete("/score", h.Match.DeleteScore)

			r.Get("/stats", h.PlayerStats.ListByMatch)
			r.Post("/stats", h.PlayerStats.Create)
		})

		r.Route("/stats/{statsID}", func(r chi.Router) {
			r.Get("/", h.PlayerStats.GetByID)
			r.Put("/", h.PlayerStats.Update)
			r.Delete("/", h.PlayerStats.Delete)
		})

		r.Post("/imports", h.Import.Upload)
		r.Get("/imports/template", h.Import.Template)
	})

	return router
}
