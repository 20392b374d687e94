// src/models/reading.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReadingSummary is the per-upload digest persisted next to the full report.
type ReadingSummary struct {
	MachineID       string    `json:"machine_id"` // Asset number, or serial number when no asset is set
	SerialNumber    string    `json:"serial_number"`
	AssetNumber     string    `json:"asset_number,omitempty"`
	Location        string    `json:"location,omitempty"`
	CommunicationID string    `json:"communication_id"`
	TakenAt         time.Time `json:"taken_at"`
	PaidValue       float64   `json:"paid_value"`
	PaidCount       int       `json:"paid_count"`
	CashValue       float64   `json:"cash_value"`
	ProductCount    int       `json:"product_count"`
	EventCount      int       `json:"event_count"`
}

// MachineStats aggregates every stored reading of one machine.
type MachineStats struct {
	MachineID        string          `json:"machine_id"`
	ReadingCount     int             `json:"reading_count"`
	TotalPaidValue   decimal.Decimal `json:"total_paid_value"`
	TotalCashValue   decimal.Decimal `json:"total_cash_value"`
	TotalChangeValue decimal.Decimal `json:"total_change_value"`
	AveragePaidValue decimal.Decimal `json:"average_paid_value"`
	TotalPaidCount   int             `json:"total_paid_count"`
	FirstReadingAt   *time.Time      `json:"first_reading_at,omitempty"`
	LastReadingAt    *time.Time      `json:"last_reading_at,omitempty"`
}
