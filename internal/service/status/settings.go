package status

import (
	"context"
	"time"

	"github.com/smartworking/order-processing/internal/domain"
)

// Settings — конфигурация, читаемая на каждую оценку перехода.
// Значения принадлежат внешней конфигурации магазина; сервис их не кэширует.
type Settings struct {
	// Enabled выключает весь эндпоинт одной настройкой.
	Enabled bool
	// CooldownLifetime — длительность окна между попытками смены статуса.
	CooldownLifetime time.Duration
}

// SettingsProvider отдаёт актуальные настройки на момент вызова.
type SettingsProvider interface {
	Settings(ctx context.Context) Settings
}

// StateMapProvider отдаёт карту "состояние → статусы" для одной оценки.
// Карта принадлежит внешней OMS и может меняться между вызовами.
type StateMapProvider interface {
	StateMap(ctx context.Context) domain.StatusStateMap
}

// StaticSettings — неизменяемый SettingsProvider для wiring из env и тестов.
type StaticSettings Settings

func (s StaticSettings) Settings(context.Context) Settings {
	return Settings(s)
}

// DefaultStateMapProvider возвращает стандартную группировку статусов.
type DefaultStateMapProvider struct{}

func (DefaultStateMapProvider) StateMap(context.Context) domain.StatusStateMap {
	return domain.DefaultStateMap()
}

var (
	_ SettingsProvider = StaticSettings{}
	_ StateMapProvider = DefaultStateMapProvider{}
)
