// src/processors/interfaces.go
package processors

import (
	"errors"
	"time"

	"github.com/username/vendingreader/backend/src/model"
	"github.com/username/vendingreader/backend/src/models"
)

var ErrMissingMachineID = errors.New("report has neither asset number nor serial number")

// ReadingProcessor turns a decoded report into the summary stored for a reading.
type ReadingProcessor interface {
	Summarize(report *models.EvaDtsReport, receivedAt time.Time) (*models.ReadingSummary, error)
}

// MachineStatsProcessor aggregates stored readings of one machine.
type MachineStatsProcessor interface {
	Calculate(machineID string, readings []model.Reading) models.MachineStats
}
