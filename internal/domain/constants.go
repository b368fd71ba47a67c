package domain

// Business validation constants
const (
	MaxPartyLength  = 200
	MaxReasonLength = 1000
	MaxNotesLength  = 2000
)

// DateTimeFormat формат времени записи на приём (RFC 3339)
const DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// AllStatuses канонический набор статусов записи
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
}
