package handlers

import (
	"context"

	"port-billing/internal/models"
)

// ----- Calculations -----

type CalculationService interface {
	Calculate(ctx context.Context, req *models.CalculationRequest) (*models.CalculationResult, error)
}

// ----- Catalog -----

type CatalogService interface {
	CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceDefinition, error)
	GetService(ctx context.Context, serviceID int64) (*models.ServiceDefinition, error)
	GetServiceByCode(ctx context.Context, code string) (*models.ServiceDefinition, error)
	ListServices(ctx context.Context, onlyActive bool, limit, offset int) ([]*models.ServiceDefinition, error)
	UpdateService(ctx context.Context, serviceID int64, req *models.UpdateServiceRequest) (*models.ServiceDefinition, error)
	DeleteService(ctx context.Context, serviceID int64) error
}

// ----- Tariffs -----

type TariffService interface {
	CreateTariff(ctx context.Context, req *models.CreateTariffRequest) (*models.TariffListEntry, error)
	GetTariff(ctx context.Context, tariffID int64) (*models.TariffListEntry, error)
	ListForService(ctx context.Context, serviceID int64) ([]*models.TariffListEntry, error)
	UpdateTariff(ctx context.Context, tariffID int64, req *models.UpdateTariffRequest) (*models.TariffListEntry, error)
	DeactivateTariff(ctx context.Context, tariffID int64) (*models.TariffListEntry, error)
}

// ----- Events -----

type EventProducer interface {
	PublishServiceCreated(svc *models.ServiceDefinition) error
	PublishServiceUpdated(svc *models.ServiceDefinition) error
	PublishTariffCreated(entry *models.TariffListEntry) error
	PublishTariffUpdated(entry *models.TariffListEntry) error
	PublishTariffDeactivated(tariffID, serviceID int64) error
}

// ----- Health -----

type DBHealth interface {
	Health() error
}

type RedisHealth interface {
	Health(ctx context.Context) error
}
