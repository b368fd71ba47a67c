package get_user_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LGS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/LGS-AppointmentService/internal/service/appointments"
	"github.com/m04kA/LGS-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidFilter = "некорректный фильтр выборки"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/user/{userId}
//
// По умолчанию выборка по клиенту записи. С параметром as=assignee
// выборка по назначенному сотруднику.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем userId из URL
	vars := mux.Vars(r)
	userIDStr := vars["userId"]

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/user/{userId} - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	req, err := handlers.ParseListQuery(r)
	if err != nil {
		h.logger.Warn("GET /appointments/user/{userId} - Invalid query params: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	var result *models.AppointmentListResponse
	if r.URL.Query().Get("as") == "assignee" {
		result, err = h.service.ListForAssignee(r.Context(), userID, req)
	} else {
		result, err = h.service.ListForClient(r.Context(), userID, req)
	}
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidFilter):
			h.logger.Warn("GET /appointments/user/{userId} - Invalid filter: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /appointments/user/{userId} - Failed to get appointments: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/user/{userId} - Appointments retrieved successfully: user_id=%d, count=%d",
		userID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
