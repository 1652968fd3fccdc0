package http

import (
	"net/http"

	"github.com/aliskhannn/nihon-flash/internal/service"
)

func (h *Handler) GetReminders(w http.ResponseWriter, r *http.Request) {
	settings, err := h.reminders.Settings(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newReminderResponse(settings))
}

func (h *Handler) UpdateReminders(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	upd := service.ReminderUpdate{
		IsEnabled:      req.IsEnabled,
		IntervalHours:  req.IntervalHours,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Timezone:       req.Timezone,
		TelegramChatID: req.TelegramChatID,
	}
	settings, err := h.reminders.Update(r.Context(), UserIDFromContext(r.Context()), upd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newReminderResponse(settings))
}
