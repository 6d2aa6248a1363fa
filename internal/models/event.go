package models

import (
	"time"

	"github.com/google/uuid"
)

// EventType определяет тип события в Kafka.
type EventType string

const (
	EventTypeCalculationPerformed EventType = "calculation.performed"
	EventTypeServiceCreated       EventType = "service.created"
	EventTypeServiceUpdated       EventType = "service.updated"
	EventTypeTariffCreated        EventType = "tariff.created"
	EventTypeTariffUpdated        EventType = "tariff.updated"
	EventTypeTariffDeactivated    EventType = "tariff.deactivated"
)

// Event представляет событие аудита, публикуемое в Kafka.
type Event struct {
	ID        uuid.UUID              `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
