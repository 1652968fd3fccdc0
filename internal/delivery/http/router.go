package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter mounts every endpoint. Everything except /health,
// /auth/register and /auth/login requires a bearer token.
func NewRouter(h *Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(WithRequestLogging(logger))
	r.Use(chiMiddleware.AllowContentType("application/json"))

	r.Get("/health", h.Health)

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.Authenticate)

		r.Get("/auth/me", h.Me)

		r.Route("/decks", func(r chi.Router) {
			r.Get("/", h.ListDecks)
			r.Post("/", h.CreateDeck)
			r.Route("/{deckID}", func(r chi.Router) {
				r.Get("/", h.GetDeck)
				r.Get("/study", h.StudyBatch)
				r.Get("/reviews", h.ReviewQueue)
				r.Get("/stats", h.DeckStats)
				r.Get("/cards", h.DeckCards)
				r.Post("/media", h.CreateMedia)
			})
		})

		r.Post("/study/submit", h.SubmitStudy)

		r.Route("/cards/{cardID}", func(r chi.Router) {
			r.Post("/review", h.ReviewCard)
			r.Put("/suspension", h.SetSuspension)
			r.Get("/logs", h.CardLogs)
		})

		r.Route("/note-types", func(r chi.Router) {
			r.Get("/", h.ListNoteTypes)
			r.Post("/", h.CreateNoteType)
			r.Get("/{noteTypeID}", h.GetNoteType)
			r.Put("/{noteTypeID}", h.UpdateNoteType)
			r.Delete("/{noteTypeID}", h.DeleteNoteType)
			r.Post("/{noteTypeID}/fields", h.CreateField)
			r.Post("/{noteTypeID}/templates", h.CreateTemplate)
			r.Put("/note-fields/{fieldID}", h.UpdateField)
			r.Delete("/note-fields/{fieldID}", h.DeleteField)
			r.Put("/card-templates/{templateID}", h.UpdateTemplate)
			r.Delete("/card-templates/{templateID}", h.DeleteTemplate)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Post("/", h.CreateNote)
			r.Get("/{noteID}", h.GetNote)
		})

		r.Get("/me/reminders", h.GetReminders)
		r.Put("/me/reminders", h.UpdateReminders)
	})

	return r
}
