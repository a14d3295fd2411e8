package events

import (
	platformevents "simulador_solar_backend/platform/events"
	"simulador_solar_backend/platform/logger"
)

// InMemoryBus is the platform in-process bus.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates the bus shared by all modules of one binary.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
