package routes

import (
	_ "embed"
	"net/http"

	"github.com/Dosada05/bracket-system/handlers"
	"github.com/Dosada05/bracket-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed doc.json
var swaggerDoc []byte

// SetupRoutes assembles the HTTP surface. Reads (views, fixtures, graph,
// websocket) are public; mutations require the organizer token issued at
// creation.
func SetupRoutes(
	router *chi.Mux,
	tournamentHandler *handlers.TournamentHandler,
	webSocketHandler *handlers.WebSocketHandler,
	tokenSecret []byte,
	allowedOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(swaggerDoc)
	})
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", tournamentHandler.CreateHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByIDHandler)
			r.Get("/fixtures", tournamentHandler.FixturesHandler)
			r.Get("/graph", tournamentHandler.GraphHandler)
			r.Post("/token", tournamentHandler.TokenHandler)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireOrganizer(tokenSecret))

				r.Post("/results", tournamentHandler.SubmitResultsHandler)
				r.Post("/results/paste", tournamentHandler.PasteResultsHandler)
				r.Post("/reset", tournamentHandler.ResetHandler)
				r.Post("/snapshot", tournamentHandler.SnapshotHandler)
			})
		})
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
