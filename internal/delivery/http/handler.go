// Package http exposes the study services as a JSON API.
package http

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Services groups the business services the handlers call.
type Services struct {
	Auth      AuthService
	Decks     DeckService
	Media     MediaService
	NoteTypes NoteTypeService
	Notes     NoteService
	Study     StudyService
	Reminders ReminderService
}

type Handler struct {
	logger    *zap.Logger
	validate  *validator.Validate
	auth      AuthService
	decks     DeckService
	media     MediaService
	noteTypes NoteTypeService
	notes     NoteService
	study     StudyService
	reminders ReminderService
}

func NewHandler(logger *zap.Logger, svc Services) *Handler {
	return &Handler{
		logger:    logger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		auth:      svc.Auth,
		decks:     svc.Decks,
		media:     svc.Media,
		noteTypes: svc.NoteTypes,
		notes:     svc.Notes,
		study:     svc.Study,
		reminders: svc.Reminders,
	}
}
