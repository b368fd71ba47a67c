package models

import (
	"errors"
	"time"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// NameUnavailable заглушка для имени, когда владеющий сервис
// не знает переданный ID или недоступен
const NameUnavailable = "название недоступно"

// Request модели

// ListAppointmentsRequest запрос на выборку записей
type ListAppointmentsRequest struct {
	Status       *string    `json:"status,omitempty"`
	BranchID     *int64     `json:"branchId,omitempty"`
	ClientID     *int64     `json:"clientId,omitempty"`
	AssigneeID   *int64     `json:"assigneeId,omitempty"`
	DateTimeFrom *time.Time `json:"dateTimeFrom,omitempty"`
	DateTimeTo   *time.Time `json:"dateTimeTo,omitempty"`

	// Search подстрочный поиск по имени клиента, party и reason.
	// Применяется на стороне сервиса поверх уже отфильтрованной выборки,
	// в спецификацию фильтра хранилища не транслируется.
	Search string `json:"search,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		BranchID:     r.BranchID,
		ClientID:     r.ClientID,
		AssigneeID:   r.AssigneeID,
		DateTimeFrom: r.DateTimeFrom,
		DateTimeTo:   r.DateTimeTo,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if err := filter.Validate(); err != nil {
		return filter, err
	}

	return filter, nil
}

// Response модели

// AssigneeResponse назначенный сотрудник с денормализованным именем
type AssigneeResponse struct {
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                  int64   `json:"id"`
	ClientUserID        int64   `json:"clientUserId"`
	ClientName          string  `json:"clientName"`
	LocationBranchID    int64   `json:"locationBranchId"`
	BranchName          string  `json:"branchName"`
	AppointmentDateTime string  `json:"appointmentDateTime"` // ISO 8601
	Party               *string `json:"party,omitempty"`
	Reason              string  `json:"reason"`
	Status              string  `json:"status"`

	NotesByClient *string `json:"notesByClient,omitempty"`
	NotesByStaff  *string `json:"notesByStaff,omitempty"`

	Assignees []AssigneeResponse `json:"assignees"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO.
// Имена филиала, клиента и сотрудников передаются денормализованными.
func FromDomainAppointment(a *domain.Appointment, branchName, clientName string, assignees []AssigneeResponse) *AppointmentResponse {
	if a == nil {
		return nil
	}

	if assignees == nil {
		assignees = []AssigneeResponse{}
	}

	return &AppointmentResponse{
		ID:                  a.ID,
		ClientUserID:        a.ClientUserID,
		ClientName:          clientName,
		LocationBranchID:    a.LocationBranchID,
		BranchName:          branchName,
		AppointmentDateTime: a.AppointmentDateTime.Format(time.RFC3339),
		Party:               a.Party,
		Reason:              a.Reason,
		Status:              string(a.Status),
		NotesByClient:       a.NotesByClient,
		NotesByStaff:        a.NotesByStaff,
		Assignees:           assignees,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
