package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	notificationApp "github.com/sonar-shubham/radiant-salon/internal/application/notification"
	domainErrors "github.com/sonar-shubham/radiant-salon/internal/domain/errors"
	"github.com/sonar-shubham/radiant-salon/internal/domain/notification"
	customMW "github.com/sonar-shubham/radiant-salon/internal/middleware"
)

// NotificationController handles notification requests. Dispatch happens in
// the worker; this controller only queues and reads.
type NotificationController struct {
	createNotification *notificationApp.CreateNotificationUseCase
	getNotification    *notificationApp.GetNotificationUseCase
}

func NewNotificationController(
	createNotification *notificationApp.CreateNotificationUseCase,
	getNotification *notificationApp.GetNotificationUseCase,
) *NotificationController {
	return &NotificationController{
		createNotification: createNotification,
		getNotification:    getNotification,
	}
}

// Create handles POST /api/v1/notifications
func (h *NotificationController) Create(w http.ResponseWriter, r *http.Request) {
	salonID, ok := customMW.GetSalonID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	var req CreateNotificationRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	typ, err := notification.ParseType(req.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	channel := notification.ChannelWhatsApp
	if req.Channel != "" {
		if channel, err = notification.ParseChannel(req.Channel); err != nil {
			writeError(w, err)
			return
		}
	}

	n, err := h.createNotification.Execute(r.Context(), notificationApp.CreateNotificationRequest{
		SalonID:        salonID,
		ClientID:       req.ClientID,
		AppointmentID:  req.AppointmentID,
		Type:           typ,
		Channel:        channel,
		Recipient:      req.Recipient,
		MessageContent: req.MessageContent,
		Params:         req.Params.toDomain(),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, FromNotification(n))
}

// Get handles GET /api/v1/notifications/{id}
func (h *NotificationController) Get(w http.ResponseWriter, r *http.Request) {
	salonID, ok := customMW.GetSalonID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	id, err := parseUUIDParam(chi.URLParam(r, "id"), "id")
	if err != nil {
		writeError(w, err)
		return
	}

	n, err := h.getNotification.Execute(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if n.SalonID != salonID {
		writeError(w, domainErrors.ErrNotificationNotFound)
		return
	}

	writeJSON(w, http.StatusOK, FromNotification(n))
}
