package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"port-billing/internal/apperror"
	"port-billing/internal/database"
	"port-billing/internal/logger"
	"port-billing/internal/models"
	"port-billing/internal/redis"
)

// snapshotInvalidator сбрасывает закешированные снапшоты тарифов услуги.
type snapshotInvalidator interface {
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// TariffService управляет тарифными записями услуг.
type TariffService struct {
	db    *database.DB
	cache snapshotInvalidator
	log   *logger.Logger
}

// NewTariffService создает сервис тарифов. cache опционален.
func NewTariffService(db *database.DB, cache snapshotInvalidator, log *logger.Logger) *TariffService {
	return &TariffService{
		db:    db,
		cache: cache,
		log:   log,
	}
}

// CreateTariff создает тарифную запись для услуги.
func (s *TariffService) CreateTariff(ctx context.Context, req *models.CreateTariffRequest) (*models.TariffListEntry, error) {
	if err := validateTariffPayload(req.UnitPrice, req.Currency, req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}

	entry := &models.TariffListEntry{
		ServiceID: req.ServiceID,
		UnitPrice: req.UnitPrice,
		Currency:  strings.ToUpper(req.Currency),
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		IsActive:  req.IsActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `
		INSERT INTO tariff_list_entries (service_id, unit_price, currency, valid_from, valid_to, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		entry.ServiceID, entry.UnitPrice, entry.Currency, entry.ValidFrom,
		entry.ValidTo, entry.IsActive, entry.CreatedAt, entry.UpdatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create tariff entry: %w", err)
	}

	s.invalidateSnapshot(ctx, entry.ServiceID)
	s.log.WithFields(map[string]interface{}{
		"tariff_id":  entry.ID,
		"service_id": entry.ServiceID,
	}).Info("Tariff entry created")

	return entry, nil
}

// GetTariff возвращает тарифную запись по id.
func (s *TariffService) GetTariff(ctx context.Context, tariffID int64) (*models.TariffListEntry, error) {
	query := `
		SELECT id, service_id, unit_price, currency, valid_from, valid_to, is_active, created_at, updated_at
		FROM tariff_list_entries
		WHERE id = $1
	`

	entry := &models.TariffListEntry{}
	if err := s.db.QueryRowContext(ctx, query, tariffID).Scan(
		&entry.ID, &entry.ServiceID, &entry.UnitPrice, &entry.Currency,
		&entry.ValidFrom, &entry.ValidTo, &entry.IsActive, &entry.CreatedAt, &entry.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("tariff entry not found", err)
		}
		return nil, fmt.Errorf("failed to get tariff entry: %w", err)
	}
	return entry, nil
}

// ListForService возвращает все тарифные записи услуги.
func (s *TariffService) ListForService(ctx context.Context, serviceID int64) ([]*models.TariffListEntry, error) {
	query := `
		SELECT id, service_id, unit_price, currency, valid_from, valid_to, is_active, created_at, updated_at
		FROM tariff_list_entries
		WHERE service_id = $1
		ORDER BY valid_from DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tariff entries: %w", err)
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

	return entries, rows.Err()
}

// UpdateTariff обновляет тарифную запись.
func (s *TariffService) UpdateTariff(ctx context.Context, tariffID int64, req *models.UpdateTariffRequest) (*models.TariffListEntry, error) {
	if err := validateTariffPayload(req.UnitPrice, req.Currency, req.ValidFrom, req.ValidTo); err != nil {
		return nil, err
	}

	query := `
		UPDATE tariff_list_entries
		SET unit_price = $1, currency = $2, valid_from = $3, valid_to = $4, is_active = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := s.db.ExecContext(ctx, query,
		req.UnitPrice, strings.ToUpper(req.Currency), req.ValidFrom, req.ValidTo,
		req.IsActive, time.Now(), tariffID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update tariff entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, apperror.NotFound("tariff entry not found", nil)
	}

	entry, err := s.GetTariff(ctx, tariffID)
	if err != nil {
		return nil, err
	}

	s.invalidateSnapshot(ctx, entry.ServiceID)
	return entry, nil
}

// DeactivateTariff выключает тарифную запись, не удаляя ее из истории.
func (s *TariffService) DeactivateTariff(ctx context.Context, tariffID int64) (*models.TariffListEntry, error) {
	query := `
		UPDATE tariff_list_entries
		SET is_active = false, updated_at = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, time.Now(), tariffID)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate tariff entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, apperror.NotFound("tariff entry not found", nil)
	}

	entry, err := s.GetTariff(ctx, tariffID)
	if err != nil {
		return nil, err
	}

	s.invalidateSnapshot(ctx, entry.ServiceID)
	return entry, nil
}

// invalidateSnapshot сбрасывает кеш снапшота тарифов услуги (best effort).
func (s *TariffService) invalidateSnapshot(ctx context.Context, serviceID int64) {
	if s.cache == nil {
		return
	}
	prefix := redis.GenerateKey(redis.KeyPrefixTariffs, fmt.Sprintf("%d", serviceID))
	if err := s.cache.DeleteByPrefix(ctx, prefix); err != nil {
		s.log.WithError(err).WithField("service_id", serviceID).Warn("Failed to invalidate tariff snapshot")
	}
}

func validateTariffPayload(unitPrice float64, currency string, validFrom time.Time, validTo *time.Time) error {
	if unitPrice < 0 {
		return apperror.InvalidParameter("unit_price must be non-negative", "unit_price")
	}
	if len(currency) != 3 {
		return apperror.Validation("currency must be a 3-letter code", "currency")
	}
	if validFrom.IsZero() {
		return apperror.Validation("valid_from is required", "valid_from")
	}
	if validTo != nil && validTo.Before(validFrom) {
		return apperror.Validation("valid_to must not precede valid_from", "valid_to")
	}
	return nil
}
