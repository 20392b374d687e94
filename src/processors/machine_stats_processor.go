// src/processors/machine_stats_processor.go
package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/vendingreader/backend/src/model"
	"github.com/username/vendingreader/backend/src/models"
)

type machineStatsProcessorImpl struct{}

func NewMachineStatsProcessor() MachineStatsProcessor {
	return &machineStatsProcessorImpl{}
}

// Calculate sums money in fixed point so totals of many readings do not drift.
func (p *machineStatsProcessorImpl) Calculate(machineID string, readings []model.Reading) models.MachineStats {
	stats := models.MachineStats{
		MachineID:        machineID,
		TotalPaidValue:   decimal.Zero,
		TotalCashValue:   decimal.Zero,
		TotalChangeValue: decimal.Zero,
		AveragePaidValue: decimal.Zero,
	}

	for i := range readings {
		r := readings[i]
		stats.ReadingCount++
		stats.TotalPaidValue = stats.TotalPaidValue.Add(decimal.NewFromFloat(r.PaidValue))
		stats.TotalCashValue = stats.TotalCashValue.Add(decimal.NewFromFloat(r.CashValue))
		stats.TotalChangeValue = stats.TotalChangeValue.Add(decimal.NewFromFloat(r.ChangeValue))
		stats.TotalPaidCount += r.PaidCount

		takenAt := r.TakenAt
		if stats.FirstReadingAt == nil || takenAt.Before(*stats.FirstReadingAt) {
			stats.FirstReadingAt = &takenAt
		}
		if stats.LastReadingAt == nil || takenAt.After(*stats.LastReadingAt) {
			stats.LastReadingAt = &takenAt
		}
	}

	if stats.ReadingCount > 0 {
		stats.AveragePaidValue = stats.TotalPaidValue.
			Div(decimal.NewFromInt(int64(stats.ReadingCount))).
			Round(2)
	}
	return stats
}
