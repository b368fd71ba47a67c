package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/LGS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/LGS-AppointmentService/internal/api/middleware"
	"github.com/m04kA/LGS-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/LGS-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты и времени записи, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBranchNotFound     = "филиал не найден"
	msgClientNotFound     = "клиент не найден"
	msgAssigneeNotFound   = "назначаемый сотрудник не найден"
	msgNotAClient         = "указанный пользователь не является клиентом"
	msgNotStaff           = "назначаемый пользователь не является сотрудником"
	msgUnknownRole        = "неизвестная роль пользователя"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}
	role, _ := middleware.GetRole(r.Context())

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(callerID, role)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Обработка ошибок use case
		var validationErr *domain.ValidationError
		var forbiddenErr *domain.ForbiddenFieldsError

		switch {
		case errors.As(err, &validationErr):
			h.logger.Warn("POST /appointments - Validation failed: caller_id=%d, error=%v", callerID, validationErr)
			handlers.RespondBadRequest(w, validationErr.Error())

		case errors.As(err, &forbiddenErr):
			h.logger.Warn("POST /appointments - Forbidden fields: caller_id=%d, role=%s, fields=%v",
				callerID, forbiddenErr.Role, forbiddenErr.Fields)
			handlers.RespondForbidden(w, forbiddenErr.Error())

		case errors.Is(err, createAppointment.ErrBranchNotFound):
			h.logger.Warn("POST /appointments - Branch not found: branch_id=%d", req.LocationBranchID)
			handlers.RespondNotFound(w, msgBranchNotFound)

		case errors.Is(err, createAppointment.ErrClientNotFound):
			h.logger.Warn("POST /appointments - Client not found: client_user_id=%d", req.ClientUserID)
			handlers.RespondNotFound(w, msgClientNotFound)

		case errors.Is(err, createAppointment.ErrAssigneeNotFound):
			h.logger.Warn("POST /appointments - Assignee not found: caller_id=%d", callerID)
			handlers.RespondNotFound(w, msgAssigneeNotFound)

		case errors.Is(err, createAppointment.ErrNotAClient):
			h.logger.Warn("POST /appointments - User is not a client: client_user_id=%d", req.ClientUserID)
			handlers.RespondBadRequest(w, msgNotAClient)

		case errors.Is(err, createAppointment.ErrNotStaff):
			h.logger.Warn("POST /appointments - Assignee is not staff: caller_id=%d", callerID)
			handlers.RespondBadRequest(w, msgNotStaff)

		case errors.Is(err, domain.ErrUnknownRole):
			h.logger.Warn("POST /appointments - Unknown role: caller_id=%d", callerID)
			handlers.RespondForbidden(w, msgUnknownRole)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: caller_id=%d, error=%v",
				callerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, client_user_id=%d, branch_id=%d",
		result.ID, result.ClientUserID, result.LocationBranchID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
