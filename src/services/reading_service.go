// src/services/reading_service.go
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/vendingreader/backend/src/logger"
	"github.com/username/vendingreader/backend/src/metrics"
	"github.com/username/vendingreader/backend/src/model"
	"github.com/username/vendingreader/backend/src/models"
	"github.com/username/vendingreader/backend/src/parsers/evadts"
	"github.com/username/vendingreader/backend/src/processors"
	"github.com/username/vendingreader/backend/src/security/validation"
	"github.com/username/vendingreader/backend/src/utils"
)

const (
	ckDecodedReport        = "decoded_report_%s"
	ckMachines             = "machines_user_%s"
	ckMachineStats         = "machine_stats_user_%s_machine_%s"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type readingServiceImpl struct {
	db                    *sql.DB
	parser                *evadts.EvaDtsParser
	readingProcessor      processors.ReadingProcessor
	machineStatsProcessor processors.MachineStatsProcessor
	reportCache           *cache.Cache
	metrics               *metrics.Metrics
	maxUploadBytes        int64
	decodeTTL             time.Duration
	now                   func() time.Time
}

// Options tunes a ReadingService. Zero values fall back to defaults.
type Options struct {
	MaxUploadBytes int64
	DecodeCacheTTL time.Duration
}

func NewReadingService(
	db *sql.DB,
	readingProcessor processors.ReadingProcessor,
	machineStatsProcessor processors.MachineStatsProcessor,
	reportCache *cache.Cache,
	m *metrics.Metrics,
	opts Options,
) ReadingService {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 1 << 20
	}
	if opts.DecodeCacheTTL <= 0 {
		opts.DecodeCacheTTL = DefaultCacheExpiration
	}
	return &readingServiceImpl{
		db:                    db,
		parser:                evadts.NewParser(),
		readingProcessor:      readingProcessor,
		machineStatsProcessor: machineStatsProcessor,
		reportCache:           reportCache,
		metrics:               m,
		maxUploadBytes:        opts.MaxUploadBytes,
		decodeTTL:             opts.DecodeCacheTTL,
		now:                   time.Now,
	}
}

func decodeResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, evadts.ErrEmptyInput):
		return metrics.ResultEmpty
	case errors.Is(err, evadts.ErrNotText):
		return metrics.ResultNotText
	default:
		return metrics.ResultError
	}
}

// decode returns the report for text and its fingerprint. Cached reports are shared
// between callers and must be treated as read-only.
func (s *readingServiceImpl) decode(ctx context.Context, text string) (*models.EvaDtsReport, string, error) {
	fingerprint := utils.Fingerprint([]byte(text))
	cacheKey := fmt.Sprintf(ckDecodedReport, fingerprint)
	if cached, found := s.reportCache.Get(cacheKey); found {
		s.metrics.CacheHit()
		return cached.(*models.EvaDtsReport), fingerprint, nil
	}

	start := time.Now()
	report, err := s.parser.Decode(text)
	s.metrics.ObserveDecode(decodeResult(err), time.Since(start))
	if err != nil {
		logger.FromContext(ctx).Warn("EVA-DTS decode failed", "fingerprint", fingerprint, "error", err)
		return nil, fingerprint, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	s.reportCache.Set(cacheKey, report, s.decodeTTL)
	return report, fingerprint, nil
}

func (s *readingServiceImpl) DecodeOnly(ctx context.Context, text string) (*models.EvaDtsReport, error) {
	report, _, err := s.decode(ctx, text)
	return report, err
}

func (s *readingServiceImpl) ProcessUpload(ctx context.Context, fileReader io.Reader, userID, filename string, filesize int64) (*UploadResult, error) {
	log := logger.FromContext(ctx)
	overallStartTime := time.Now()
	log.Info("ProcessUpload START", "filename", filename, "size", filesize)

	filename = validation.SanitizeText(filepath.Base(filename))
	if err := validation.ValidateStringMaxLength(filename, validation.MaxFilenameLength, "filename"); err != nil {
		return nil, err
	}

	text, charsetName, err := validation.ReadTextUpload(fileReader, s.maxUploadBytes)
	if err != nil {
		return nil, err
	}

	report, fingerprint, err := s.decode(ctx, text)
	if err != nil {
		return nil, err
	}

	summary, err := s.readingProcessor.Summarize(report, s.now())
	if err != nil {
		return nil, fmt.Errorf("cannot store reading: %w", err)
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	reading := &model.Reading{
		ID:              uuid.NewString(),
		UserID:          userID,
		MachineID:       summary.MachineID,
		TakenAt:         summary.TakenAt,
		Source:          model.SourceUpload,
		PaidValue:       summary.PaidValue,
		PaidCount:       summary.PaidCount,
		CashValue:       summary.CashValue,
		CommunicationID: summary.CommunicationID,
		Filename:        filename,
		Fingerprint:     fingerprint,
		ProductCount:    summary.ProductCount,
		EventCount:      summary.EventCount,
		ReportJSON:      string(reportJSON),
		CreatedAt:       s.now().UTC(),
	}
	machine := model.Machine{
		SerialNumber: summary.SerialNumber,
		AssetNumber:  summary.AssetNumber,
		Location:     summary.Location,
	}

	if err := model.SaveReading(s.db, machine, reading); err != nil {
		if errors.Is(err, model.ErrDuplicateReading) {
			s.metrics.DuplicateUpload()
			log.Info("Duplicate upload ignored", "machineID", summary.MachineID, "fingerprint", fingerprint)
		}
		return nil, err
	}
	s.metrics.ReadingStored(model.SourceUpload)
	s.InvalidateUserCache(userID)

	log.Info("ProcessUpload END", "machineID", summary.MachineID, "readingID", reading.ID,
		"products", summary.ProductCount, "duration", time.Since(overallStartTime))
	return &UploadResult{Reading: reading, Summary: summary, Report: report, Charset: charsetName}, nil
}

func (s *readingServiceImpl) AddManualReading(ctx context.Context, userID, machineID string, paidValue, changeValue float64) (*model.Reading, error) {
	machineID = strings.TrimSpace(machineID)
	if err := validation.ValidateMachineID(machineID); err != nil {
		return nil, err
	}
	if err := validation.ValidateAmount(paidValue, "paid value"); err != nil {
		return nil, err
	}
	if err := validation.ValidateAmount(changeValue, "change value"); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	reading := &model.Reading{
		ID:          uuid.NewString(),
		UserID:      userID,
		MachineID:   machineID,
		TakenAt:     now,
		Source:      model.SourceManual,
		PaidValue:   utils.RoundFloat(paidValue, 2),
		ChangeValue: utils.RoundFloat(changeValue, 2),
		CreatedAt:   now,
	}
	if err := model.SaveReading(s.db, model.Machine{}, reading); err != nil {
		return nil, err
	}
	s.metrics.ReadingStored(model.SourceManual)
	s.InvalidateUserCache(userID)
	logger.FromContext(ctx).Info("Manual reading added", "machineID", machineID, "readingID", reading.ID)
	return reading, nil
}

func (s *readingServiceImpl) GetMachines(ctx context.Context, userID string) ([]model.Machine, error) {
	cacheKey := fmt.Sprintf(ckMachines, userID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]model.Machine), nil
	}
	machines, err := model.GetMachinesByUser(s.db, userID)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(cacheKey, machines, cache.DefaultExpiration)
	return machines, nil
}

func (s *readingServiceImpl) GetMachine(ctx context.Context, userID, machineID string) (*model.Machine, error) {
	return model.GetMachine(s.db, userID, machineID)
}

func (s *readingServiceImpl) GetMachineStats(ctx context.Context, userID, machineID string) (*models.MachineStats, error) {
	cacheKey := fmt.Sprintf(ckMachineStats, userID, machineID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*models.MachineStats), nil
	}
	readings, err := s.GetReadings(ctx, userID, machineID)
	if err != nil {
		return nil, err
	}
	stats := s.machineStatsProcessor.Calculate(machineID, readings)
	s.reportCache.Set(cacheKey, &stats, cache.DefaultExpiration)
	return &stats, nil
}

// GetReadings returns ErrNotFound for an unknown machine rather than an empty list.
func (s *readingServiceImpl) GetReadings(ctx context.Context, userID, machineID string) ([]model.Reading, error) {
	if _, err := model.GetMachine(s.db, userID, machineID); err != nil {
		return nil, err
	}
	return model.GetReadingsByMachine(s.db, userID, machineID)
}

func (s *readingServiceImpl) GetReport(ctx context.Context, userID, readingID string) (*ReadingReport, error) {
	reading, err := model.GetReadingByID(s.db, userID, readingID)
	if err != nil {
		return nil, err
	}
	result := &ReadingReport{Reading: reading}
	if reading.ReportJSON != "" {
		var report models.EvaDtsReport
		if err := json.Unmarshal([]byte(reading.ReportJSON), &report); err != nil {
			return nil, fmt.Errorf("stored report for reading %s is corrupt: %w", readingID, err)
		}
		result.Report = &report
	}
	return result, nil
}

func (s *readingServiceImpl) DeleteMachine(ctx context.Context, userID, machineID string) error {
	if err := model.DeleteMachine(s.db, userID, machineID); err != nil {
		return err
	}
	s.InvalidateUserCache(userID)
	logger.FromContext(ctx).Info("Machine deleted", "machineID", machineID)
	return nil
}

func (s *readingServiceImpl) DeleteReading(ctx context.Context, userID, readingID string) error {
	if err := model.DeleteReading(s.db, userID, readingID); err != nil {
		return err
	}
	s.InvalidateUserCache(userID)
	logger.FromContext(ctx).Info("Reading deleted", "readingID", readingID)
	return nil
}

// InvalidateUserCache drops the user's machine list and every per-machine stats entry.
// Decoded reports are keyed by content and stay cached.
func (s *readingServiceImpl) InvalidateUserCache(userID string) {
	s.reportCache.Delete(fmt.Sprintf(ckMachines, userID))
	statsPrefix := fmt.Sprintf(ckMachineStats, userID, "")
	for key := range s.reportCache.Items() {
		if strings.HasPrefix(key, statsPrefix) {
			s.reportCache.Delete(key)
		}
	}
}
