// src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"io"

	"github.com/username/vendingreader/backend/src/model"
	"github.com/username/vendingreader/backend/src/models"
	"github.com/username/vendingreader/backend/src/processors"
)

// UploadResult is what a single ProcessUpload call stored and decoded.
type UploadResult struct {
	Reading *model.Reading         `json:"reading"`
	Summary *models.ReadingSummary `json:"summary"`
	Report  *models.EvaDtsReport   `json:"report"`
	Charset string                 `json:"charset"`
}

// ReadingReport pairs a stored reading with its decoded report. Report is nil for manual readings.
type ReadingReport struct {
	Reading *model.Reading       `json:"reading"`
	Report  *models.EvaDtsReport `json:"report,omitempty"`
}

// Define common service errors
var (
	ErrDecodeFailed     = errors.New("eva-dts decoding failed")
	ErrMissingMachineID = processors.ErrMissingMachineID
	ErrDuplicateReading = model.ErrDuplicateReading
	ErrNotFound         = model.ErrNotFound
)

// ReadingService defines the decode, ingest and query operations over machine readings.
type ReadingService interface {
	// DecodeOnly decodes text without persisting anything. Results are cached by content fingerprint.
	DecodeOnly(ctx context.Context, text string) (*models.EvaDtsReport, error)
	ProcessUpload(ctx context.Context, fileReader io.Reader, userID, filename string, filesize int64) (*UploadResult, error)
	AddManualReading(ctx context.Context, userID, machineID string, paidValue, changeValue float64) (*model.Reading, error)

	GetMachines(ctx context.Context, userID string) ([]model.Machine, error)
	GetMachine(ctx context.Context, userID, machineID string) (*model.Machine, error)
	GetMachineStats(ctx context.Context, userID, machineID string) (*models.MachineStats, error)
	GetReadings(ctx context.Context, userID, machineID string) ([]model.Reading, error)
	GetReport(ctx context.Context, userID, readingID string) (*ReadingReport, error)

	DeleteMachine(ctx context.Context, userID, machineID string) error
	DeleteReading(ctx context.Context, userID, readingID string) error
	InvalidateUserCache(userID string)
}
