package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"port-billing/internal/apperror"
	"port-billing/internal/config"
	"port-billing/internal/database"
	"port-billing/internal/logger"
	"port-billing/internal/models"
	"port-billing/internal/redis"

	"github.com/shopspring/decimal"
)

// tariffCache — кеш снапшотов тарифных записей.
type tariffCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// calculationEvents — публикация событий аудита о расчетах.
type calculationEvents interface {
	PublishCalculationPerformed(serviceID int64, result *models.CalculationResult) error
}

// CalculationService выполняет тарифицированный расчет стоимости услуги:
// валидация параметров, поиск действующей тарифной записи на дату,
// применение формулы и сборка результата с расшифровкой.
type CalculationService struct {
	db       *database.DB
	cache    tariffCache
	producer calculationEvents
	log      *logger.Logger
	cacheTTL time.Duration
}

// NewCalculationService создает сервис расчета. cache и producer опциональны.
func NewCalculationService(db *database.DB, cache tariffCache, producer calculationEvents, log *logger.Logger, cfg *config.CalculationConfig) *CalculationService {
	ttl := 10 * time.Minute
	if cfg != nil && cfg.TariffCacheTTLMinutes > 0 {
		ttl = time.Duration(cfg.TariffCacheTTLMinutes) * time.Minute
	}
	return &CalculationService{
		db:       db,
		cache:    cache,
		producer: producer,
		log:      log,
		cacheTTL: ttl,
	}
}

// Calculate загружает карточку услуги и тарифные записи, выполняет расчет и
// публикует событие аудита. Ошибка публикации не влияет на результат.
func (s *CalculationService) Calculate(ctx context.Context, req *models.CalculationRequest) (*models.CalculationResult, error) {
	service, err := s.getService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	// Тип расчета из запроса главнее типа из карточки (what-if расчеты);
	// пустой тип означает "как в карточке".
	if req.CalculationType == "" {
		req.CalculationType = service.CalculationType
	}

	candidates, err := s.loadTariffCandidates(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	result, err := s.CalculateWithData(req, service, candidates)
	if err != nil {
		return nil, err
	}

	if s.producer != nil {
		if err := s.producer.PublishCalculationPerformed(service.ID, result); err != nil {
			s.log.WithError(err).WithField("service_id", service.ID).Warn("Failed to publish calculation event")
		}
	}

	return result, nil
}

// CalculateWithData — чистый расчет над уже загруженными данными: без I/O,
// без частичных мутаций, детерминированный для фиксированных входов.
func (s *CalculationService) CalculateWithData(req *models.CalculationRequest, service *models.ServiceDefinition, candidates []*models.TariffListEntry) (*models.CalculationResult, error) {
	effectiveDate, err := req.ParseEffectiveDate()
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("effective_date must be in %s format", models.DateLayout), "effective_date")
	}

	calcType := req.CalculationType
	if calcType == "" {
		calcType = service.CalculationType
	}

	if err := ValidateCalculationParams(calcType, &req.CalculationParams); err != nil {
		return nil, err
	}

	resolved := ResolveTariffOverride(service.ID, effectiveDate, candidates)
	if resolved.Ambiguous {
		s.log.WithFields(map[string]interface{}{
			"service_id":     service.ID,
			"effective_date": req.EffectiveDate,
			"tariff_id":      resolved.Entry.ID,
		}).Warn("Multiple tariff entries share the same valid_from, picked highest id")
	}

	unitPrice := service.BasePrice
	currency := service.Currency
	overrideApplied := false
	if resolved.Entry != nil {
		unitPrice = resolved.Entry.UnitPrice
		if resolved.Entry.Currency != "" {
			currency = resolved.Entry.Currency
		}
		overrideApplied = true
	}

	out := applyStrategy(calcType, strategyInput{
		UnitPrice: unitPrice,
		BasePrice: service.BasePrice,
		Params:    &req.CalculationParams,
	})

	return &models.CalculationResult{
		CalculatedPrice:       round2(out.Price),
		Currency:              currency,
		CalculationType:       calcType,
		FormulaUsed:           out.Formula,
		Breakdown:             out.Breakdown,
		TariffOverrideApplied: overrideApplied,
		EffectiveDate:         req.EffectiveDate,
	}, nil
}

// getService загружает карточку услуги по id.
func (s *CalculationService) getService(ctx context.Context, serviceID int64) (*models.ServiceDefinition, error) {
	query := `
		SELECT id, code, name, calculation_type, base_price, currency, vat_rate, active, created_at, updated_at
		FROM service_definitions
		WHERE id = $1
	`

	svc := &models.ServiceDefinition{}
	if err := s.db.QueryRowContext(ctx, query, serviceID).Scan(
		&svc.ID, &svc.Code, &svc.Name, &svc.CalculationType, &svc.BasePrice,
		&svc.Currency, &svc.VATRate, &svc.Active, &svc.CreatedAt, &svc.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("service not found", err)
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return svc, nil
}

// loadTariffCandidates возвращает снапшот активных тарифных записей услуги,
// используя кеш Redis (best effort) с фолбэком в Postgres.
func (s *CalculationService) loadTariffCandidates(ctx context.Context, serviceID int64) ([]*models.TariffListEntry, error) {
	cacheKey := redis.GenerateKey(redis.KeyPrefixTariffs, fmt.Sprintf("%d", serviceID))

	if s.cache != nil {
		var cached []*models.TariffListEntry
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	query := `
		SELECT id, service_id, unit_price, currency, valid_from, valid_to, is_active, created_at, updated_at
		FROM tariff_list_entries
		WHERE service_id = $1 AND is_active = true
	`

	rows, err := s.db.QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tariff entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.TariffListEntry
	for rows.Next() {
		e := &models.TariffListEntry{}
		if err := rows.Scan(&e.ID, &e.ServiceID, &e.UnitPrice, &e.Currency, &e.ValidFrom, &e.ValidTo, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tariff entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tariff entries: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, entries, s.cacheTTL); err != nil {
			s.log.WithError(err).WithField("service_id", serviceID).Warn("Failed to cache tariff snapshot")
		}
	}

	return entries, nil
}

// round2 округляет до 2 знаков (половина — от нуля).
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
