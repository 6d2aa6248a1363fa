package services

import (
	"time"

	"port-billing/internal/models"
)

// ResolvedTariff — результат поиска тарифной записи на дату.
// Ambiguous выставляется, когда несколько активных записей с одинаковым
// valid_from покрывают дату: выбор всё равно детерминирован (большее id),
// но состояние стоит залогировать как проблему качества данных.
type ResolvedTariff struct {
	Entry     *models.TariffListEntry
	Ambiguous bool
}

// ResolveTariffOverride находит тарифную запись, действующую для услуги на
// указанную дату. Кандидаты сканируются линейно без предположений о
// сортировке и непересечении окон: при нескольких совпадениях побеждает
// запись с самым поздним valid_from, при равных valid_from — с большим id.
// Возвращает Entry = nil, если ни одна запись не действует.
func ResolveTariffOverride(serviceID int64, effectiveDate time.Time, candidates []*models.TariffListEntry) ResolvedTariff {
	var best *models.TariffListEntry
	ambiguous := false

	for _, entry := range candidates {
		if entry == nil || entry.ServiceID != serviceID {
			continue
		}
		if !entry.InForceAt(effectiveDate) {
			continue
		}

		switch {
		case best == nil:
			best = entry
		case entry.ValidFrom.After(best.ValidFrom):
			best = entry
			ambiguous = false
		case entry.ValidFrom.Equal(best.ValidFrom):
			ambiguous = true
			if entry.ID > best.ID {
				best = entry
			}
		}
	}

	if best == nil {
		return ResolvedTariff{}
	}
	return ResolvedTariff{Entry: best, Ambiguous: ambiguous}
}
