package get_branch_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LGS-AppointmentService/internal/api/handlers"
	"github.com/m04kA/LGS-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidBranchID = "некорректный ID филиала"
	msgInvalidFilter   = "некорректный фильтр выборки"
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

// Handle GET /api/v1/appointments/branch/{branchId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем branchId из URL
	vars := mux.Vars(r)
	branchIDStr := vars["branchId"]

	branchID, err := strconv.ParseInt(branchIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/branch/{branchId} - Invalid branch ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBranchID)
		return
	}

	req, err := handlers.ParseListQuery(r)
	if err != nil {
		h.logger.Warn("GET /appointments/branch/{branchId} - Invalid query params: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.ListForBranch(r.Context(), branchID, req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidFilter):
			h.logger.Warn("GET /appointments/branch/{branchId} - Invalid filter: branch_id=%d, error=%v", branchID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /appointments/branch/{branchId} - Failed to get appointments: branch_id=%d, error=%v",
				branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/branch/{branchId} - Appointments retrieved successfully: branch_id=%d, count=%d",
		branchID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
