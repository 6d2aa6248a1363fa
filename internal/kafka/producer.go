package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"port-billing/internal/config"
	"port-billing/internal/logger"
	"port-billing/internal/models"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Producer публикует события аудита в Kafka.
type Producer struct {
	producer sarama.SyncProducer
	log      *logger.Logger
	topics   *config.Topics
}

// NewProducer создает синхронный Kafka producer.
func NewProducer(cfg *config.KafkaConfig, log *logger.Logger) (*Producer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 3
	saramaCfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("Successfully connected to Kafka")

	return &Producer{
		producer: producer,
		log:      log,
		topics:   &cfg.Topics,
	}, nil
}

// Close закрывает producer.
func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// PublishCalculationPerformed публикует событие о выполненном расчете.
func (p *Producer) PublishCalculationPerformed(serviceID int64, result *models.CalculationResult) error {
	event := models.Event{
		ID:        uuid.New(),
		Type:      models.EventTypeCalculationPerformed,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"service_id":              serviceID,
			"calculated_price":        result.CalculatedPrice,
			"currency":                result.Currency,
			"calculation_type":        string(result.CalculationType),
			"tariff_override_applied": result.TariffOverrideApplied,
			"effective_date":          result.EffectiveDate,
		},
	}
	return p.publishEvent(p.topics.Calculations, event)
}

// PublishServiceCreated публикует событие о создании услуги.
func (p *Producer) PublishServiceCreated(svc *models.ServiceDefinition) error {
	return p.publishEvent(p.topics.Catalog, p.serviceEvent(models.EventTypeServiceCreated, svc))
}

// PublishServiceUpdated публикует событие об обновлении услуги.
func (p *Producer) PublishServiceUpdated(svc *models.ServiceDefinition) error {
	return p.publishEvent(p.topics.Catalog, p.serviceEvent(models.EventTypeServiceUpdated, svc))
}

// PublishTariffCreated публикует событие о создании тарифной записи.
func (p *Producer) PublishTariffCreated(entry *models.TariffListEntry) error {
	return p.publishEvent(p.topics.Tariffs, p.tariffEvent(models.EventTypeTariffCreated, entry))
}

// PublishTariffUpdated публикует событие об обновлении тарифной записи.
func (p *Producer) PublishTariffUpdated(entry *models.TariffListEntry) error {
	return p.publishEvent(p.topics.Tariffs, p.tariffEvent(models.EventTypeTariffUpdated, entry))
}

// PublishTariffDeactivated публикует событие о деактивации тарифной записи.
func (p *Producer) PublishTariffDeactivated(tariffID, serviceID int64) error {
	event := models.Event{
		ID:        uuid.New(),
		Type:      models.EventTypeTariffDeactivated,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"tariff_id":  tariffID,
			"service_id": serviceID,
		},
	}
	return p.publishEvent(p.topics.Tariffs, event)
}

func (p *Producer) serviceEvent(eventType models.EventType, svc *models.ServiceDefinition) models.Event {
	return models.Event{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"service_id":       svc.ID,
			"code":             svc.Code,
			"calculation_type": string(svc.CalculationType),
			"base_price":       svc.BasePrice,
			"currency":         svc.Currency,
		},
	}
}

func (p *Producer) tariffEvent(eventType models.EventType, entry *models.TariffListEntry) models.Event {
	data := map[string]interface{}{
		"tariff_id":  entry.ID,
		"service_id": entry.ServiceID,
		"unit_price": entry.UnitPrice,
		"currency":   entry.Currency,
		"valid_from": entry.ValidFrom.Format(models.DateLayout),
		"is_active":  entry.IsActive,
	}
	if entry.ValidTo != nil {
		data["valid_to"] = entry.ValidTo.Format(models.DateLayout)
	}
	return models.Event{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// publishEvent сериализует событие и отправляет его в топик.
func (p *Producer) publishEvent(topic string, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.ID.String()),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}

	p.log.WithFields(map[string]interface{}{
		"topic":     topic,
		"partition": partition,
		"offset":    offset,
		"type":      event.Type,
	}).Debug("Event published")

	return nil
}
