package models

import "time"

// ServiceDefinition представляет услугу порта в каталоге.
type ServiceDefinition struct {
	ID              int64           `json:"id" db:"id"`
	Code            string          `json:"code" db:"code"`
	Name            string          `json:"name" db:"name"`
	CalculationType CalculationType `json:"calculation_type" db:"calculation_type"`
	BasePrice       float64         `json:"base_price" db:"base_price"`
	Currency        string          `json:"currency" db:"currency"`
	VATRate         float64         `json:"vat_rate" db:"vat_rate"`
	Active          bool            `json:"active" db:"active"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateServiceRequest описывает запрос на создание услуги.
type CreateServiceRequest struct {
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	CalculationType CalculationType `json:"calculation_type"`
	BasePrice       float64         `json:"base_price"`
	Currency        string          `json:"currency"`
	VATRate         float64         `json:"vat_rate"`
	Active          bool            `json:"active"`
}

// UpdateServiceRequest описывает запрос на обновление услуги.
type UpdateServiceRequest struct {
	Name            string          `json:"name"`
	CalculationType CalculationType `json:"calculation_type"`
	BasePrice       float64         `json:"base_price"`
	Currency        string          `json:"currency"`
	VATRate         float64         `json:"vat_rate"`
	Active          bool            `json:"active"`
}
