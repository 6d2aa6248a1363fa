package models

import "time"

// TariffListEntry представляет тарифную запись, временно заменяющую
// базовую цену услуги в окне действия [valid_from, valid_to].
// Открытый valid_to (nil) означает "действует до сих пор".
type TariffListEntry struct {
	ID        int64      `json:"id" db:"id"`
	ServiceID int64      `json:"service_id" db:"service_id"`
	UnitPrice float64    `json:"unit_price" db:"unit_price"`
	Currency  string     `json:"currency" db:"currency"`
	ValidFrom time.Time  `json:"valid_from" db:"valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty" db:"valid_to"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// InForceAt сообщает, покрывает ли окно действия записи указанную дату.
func (e *TariffListEntry) InForceAt(date time.Time) bool {
	if !e.IsActive {
		return false
	}
	if date.Before(e.ValidFrom) {
		return false
	}
	if e.ValidTo != nil && date.After(*e.ValidTo) {
		return false
	}
	return true
}

// CreateTariffRequest описывает запрос на создание тарифной записи.
type CreateTariffRequest struct {
	ServiceID int64      `json:"service_id"`
	UnitPrice float64    `json:"unit_price"`
	Currency  string     `json:"currency"`
	ValidFrom time.Time  `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
	IsActive  bool       `json:"is_active"`
}

// UpdateTariffRequest описывает запрос на обновление тарифной записи.
type UpdateTariffRequest struct {
	UnitPrice float64    `json:"unit_price"`
	Currency  string     `json:"currency"`
	ValidFrom time.Time  `json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to,omitempty"`
	IsActive  bool       `json:"is_active"`
}
