package cache

import (
	"context"

	"github.com/m04kA/LGS-AppointmentService/internal/domain"
)

// Noop кэш-заглушка для конфигураций без Redis: каждое чтение - промах,
// инвалидация - no-op. Семантика сервиса от кэша не зависит.
type Noop struct{}

// NewNoop создает кэш-заглушку
func NewNoop() *Noop { return &Noop{} }

func (*Noop) GetList(context.Context, string) ([]byte, bool) { return nil, false }

func (*Noop) SetList(context.Context, string, []byte, []domain.Tag) {}

func (*Noop) Invalidate(context.Context, ...domain.Tag) error { return nil }
