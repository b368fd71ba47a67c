package update_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LGS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/LGS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	updateAppointment "github.com/m04kA/LGS-AppointmentService/internal/usecase/update_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateTime      = "некорректный формат даты и времени записи, ожидается RFC3339"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgNotFound             = "запись не найдена"
	msgBranchNotFound       = "филиал не найден"
	msgAssigneeNotFound     = "назначаемый сотрудник не найден"
	msgNotStaff             = "назначаемый пользователь не является сотрудником"
	msgUnknownRole          = "неизвестная роль пользователя"
)

type Handler struct {
	useCase UpdateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase UpdateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем appointmentId из URL
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /appointments/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetRole(r.Context())

	var req UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(callerID, role)
	if err != nil {
		h.logger.Warn("PUT /appointments/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), appointmentID, useCaseReq)
	if err != nil {
		var validationErr *domain.ValidationError
		var forbiddenErr *domain.ForbiddenFieldsError
		var transitionErr *domain.InvalidTransitionError

		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("PUT /appointments/{id} - Validation failed: appointment_id=%d, error=%v",
				appointmentID, validationErr)
			handlers.RespondBadRequest(w, validationErr.Error())

		case errors.As(err, &forbiddenErr):
			h.logger.Warn("PUT /appointments/{id} - Forbidden fields: appointment_id=%d, role=%s, fields=%v",
				appointmentID, forbiddenErr.Role, forbiddenErr.Fields)
			handlers.RespondForbidden(w, forbiddenErr.Error())

		case errors.As(err, &transitionErr):
			h.logger.Warn("PUT /appointments/{id} - Invalid status transition: appointment_id=%d, %s -> %s",
				appointmentID, transitionErr.From, transitionErr.To)
			handlers.RespondError(w, http.StatusConflict, transitionErr.Error())

		case errors.Is(err, updateAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PUT /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateAppointment.ErrBranchNotFound):
			h.logger.Warn("PUT /appointments/{id} - Branch not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, updateAppointment.ErrAssigneeNotFound):
			h.logger.Warn("PUT /appointments/{id} - Assignee not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAssigneeNotFound)

		case errors.Is(err, updateAppointment.ErrNotStaff):
			h.logger.Warn("PUT /appointments/{id} - Assignee is not staff: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgNotStaff)

		case errors.Is(err, domain.ErrUnknownRole):
			h.logger.Warn("PUT /appointments/{id} - Unknown role: caller_id=%d", callerID)
			handlers.RespondForbidden(w, msgUnknownRole)

		default:
			h.logger.Error("PUT /appointments/{id} - Failed to update appointment: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id} - Appointment updated successfully: appointment_id=%d, caller_id=%d",
		appointmentID, callerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
