// src/processors/reading_processor.go
package processors

import (
	"fmt"
	"time"

	"github.com/username/vendingreader/backend/src/models"
	"github.com/username/vendingreader/backend/src/security/validation"
)

// EA3 dates are YYMMDD, times HHMM.
const (
	readDateLayout     = "060102"
	readDateTimeLayout = "060102 1504"
)

type readingProcessorImpl struct{}

func NewReadingProcessor() ReadingProcessor {
	return &readingProcessorImpl{}
}

func (p *readingProcessorImpl) Summarize(report *models.EvaDtsReport, receivedAt time.Time) (*models.ReadingSummary, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}

	serial := validation.SanitizeText(report.MachineInfo.SerialNumber)
	asset := ""
	if report.MachineInfo.AssetNumber != nil {
		asset = validation.SanitizeText(*report.MachineInfo.AssetNumber)
	}
	location := ""
	if report.MachineInfo.Location != nil {
		location = validation.SanitizeText(*report.MachineInfo.Location)
	}

	machineID := asset
	if machineID == "" {
		machineID = serial
	}
	if machineID == "" {
		return nil, ErrMissingMachineID
	}
	if err := validation.ValidateMachineID(machineID); err != nil {
		return nil, err
	}

	return &models.ReadingSummary{
		MachineID:       machineID,
		SerialNumber:    serial,
		AssetNumber:     asset,
		Location:        location,
		CommunicationID: validation.SanitizeText(report.Header.CommunicationID),
		TakenAt:         readTimestamp(report.ReadInfo, receivedAt),
		PaidValue:       report.SalesData.PaidVendValueInit,
		PaidCount:       report.SalesData.PaidVendCountInit,
		CashValue:       report.CashData.CashSalesValueInit,
		ProductCount:    len(report.Products),
		EventCount:      len(report.Events),
	}, nil
}

// readTimestamp uses the EA3 read date and time when they parse, and fallback otherwise.
func readTimestamp(info models.ReadInfo, fallback time.Time) time.Time {
	if info.ReadDate == nil {
		return fallback.UTC()
	}
	if info.ReadTime != nil {
		if t, err := time.Parse(readDateTimeLayout, *info.ReadDate+" "+*info.ReadTime); err == nil {
			return t
		}
	}
	if t, err := time.Parse(readDateLayout, *info.ReadDate); err == nil {
		return t
	}
	return fallback.UTC()
}
