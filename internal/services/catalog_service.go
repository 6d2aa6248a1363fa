package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"port-billing/internal/apperror"
	"port-billing/internal/database"
	"port-billing/internal/logger"
	"port-billing/internal/models"

	"github.com/lib/pq"
)

// CatalogService управляет каталогом услуг порта.
type CatalogService struct {
	db  *database.DB
	log *logger.Logger
}

// NewCatalogService создает сервис каталога.
func NewCatalogService(db *database.DB, log *logger.Logger) *CatalogService {
	return &CatalogService{
		db:  db,
		log: log,
	}
}

// CreateService создает новую услугу.
func (s *CatalogService) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceDefinition, error) {
	if err := validateServicePayload(req.Code, req.CalculationType, req.BasePrice, req.Currency); err != nil {
		return nil, err
	}

	svc := &models.ServiceDefinition{
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:            req.Name,
		CalculationType: req.CalculationType,
		BasePrice:       req.BasePrice,
		Currency:        strings.ToUpper(req.Currency),
		VATRate:         req.VATRate,
		Active:          req.Active,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	query := `
		INSERT INTO service_definitions (code, name, calculation_type, base_price, currency, vat_rate, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		svc.Code, svc.Name, svc.CalculationType, svc.BasePrice, svc.Currency,
		svc.VATRate, svc.Active, svc.CreatedAt, svc.UpdatedAt,
	).Scan(&svc.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, apperror.Conflict("service code already exists", err)
		}
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.log.WithField("service_code", svc.Code).Info("Service created")
	return svc, nil
}

// GetService возвращает услугу по id.
func (s *CatalogService) GetService(ctx context.Context, serviceID int64) (*models.ServiceDefinition, error) {
	query := `
		SELECT id, code, name, calculation_type, base_price, currency, vat_rate, active, created_at, updated_at
		FROM service_definitions
		WHERE id = $1
	`
	return s.scanService(s.db.QueryRowContext(ctx, query, serviceID))
}

// GetServiceByCode возвращает услугу по коду.
func (s *CatalogService) GetServiceByCode(ctx context.Context, code string) (*models.ServiceDefinition, error) {
	query := `
		SELECT id, code, name, calculation_type, base_price, currency, vat_rate, active, created_at, updated_at
		FROM service_definitions
		WHERE code = $1
	`
	return s.scanService(s.db.QueryRowContext(ctx, query, strings.ToUpper(strings.TrimSpace(code))))
}

// ListServices возвращает список услуг.
func (s *CatalogService) ListServices(ctx context.Context, onlyActive bool, limit, offset int) ([]*models.ServiceDefinition, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, code, name, calculation_type, base_price, currency, vat_rate, active, created_at, updated_at
		FROM service_definitions
	`
	args := []interface{}{}
	if onlyActive {
		query += " WHERE active = true"
	}
	query += fmt.Sprintf(" ORDER BY code LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var result []*models.ServiceDefinition
	for rows.Next() {
		svc := &models.ServiceDefinition{}
		if err := rows.Scan(
			&svc.ID, &svc.Code, &svc.Name, &svc.CalculationType, &svc.BasePrice,
			&svc.Currency, &svc.VATRate, &svc.Active, &svc.CreatedAt, &svc.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		result = append(result, svc)
	}

	return result, rows.Err()
}

// UpdateService обновляет параметры услуги.
func (s *CatalogService) UpdateService(ctx context.Context, serviceID int64, req *models.UpdateServiceRequest) (*models.ServiceDefinition, error) {
	if err := validateServicePayload("-", req.CalculationType, req.BasePrice, req.Currency); err != nil {
		return nil, err
	}

	query := `
		UPDATE service_definitions
		SET name = $1, calculation_type = $2, base_price = $3, currency = $4, vat_rate = $5, active = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(ctx, query,
		req.Name, req.CalculationType, req.BasePrice, strings.ToUpper(req.Currency),
		req.VATRate, req.Active, time.Now(), serviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, apperror.NotFound("service not found", nil)
	}

	return s.GetService(ctx, serviceID)
}

// DeleteService удаляет услугу из каталога.
func (s *CatalogService) DeleteService(ctx context.Context, serviceID int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM service_definitions WHERE id = $1", serviceID)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperror.NotFound("service not found", nil)
	}
	return nil
}

func (s *CatalogService) scanService(row *sql.Row) (*models.ServiceDefinition, error) {
	svc := &models.ServiceDefinition{}
	if err := row.Scan(
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

func validateServicePayload(code string, calcType models.CalculationType, basePrice float64, currency string) error {
	if strings.TrimSpace(code) == "" {
		return apperror.Validation("service code is required", "code")
	}
	if !calcType.IsValid() {
		return apperror.Validation(fmt.Sprintf("unknown calculation_type %q", calcType), "calculation_type")
	}
	if basePrice < 0 {
		return apperror.InvalidParameter("base_price must be non-negative", "base_price")
	}
	if len(currency) != 3 {
		return apperror.Validation("currency must be a 3-letter code", "currency")
	}
	return nil
}
