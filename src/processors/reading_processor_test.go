package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/vendingreader/backend/src/models"
	"github.com/username/vendingreader/backend/src/security/validation"
)

func strPtr(s string) *string { return &s }

func TestSummarize_PrefersAssetNumber(t *testing.T) {
	report := &models.EvaDtsReport{
		Header:      models.ApplicationHeader{CommunicationID: "COMM01"},
		MachineInfo: models.MachineInfo{SerialNumber: "SN4711", AssetNumber: strPtr("ASSET-22"), Location: strPtr("<b>Lobby</b>")},
		SalesData:   models.SalesData{PaidVendValueInit: 1250.5, PaidVendCountInit: 803},
		CashData:    models.CashData{CashSalesValueInit: 980},
		Products:    make([]models.ProductData, 3),
		Events:      make([]models.EventData, 2),
		ReadInfo:    models.ReadInfo{ReadDate: strPtr("250301"), ReadTime: strPtr("0900")},
	}

	s, err := NewReadingProcessor().Summarize(report, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "ASSET-22", s.MachineID)
	assert.Equal(t, "SN4711", s.SerialNumber)
	assert.Equal(t, "Lobby", s.Location)
	assert.Equal(t, "COMM01", s.CommunicationID)
	assert.Equal(t, 1250.5, s.PaidValue)
	assert.Equal(t, 803, s.PaidCount)
	assert.Equal(t, 980.0, s.CashValue)
	assert.Equal(t, 3, s.ProductCount)
	assert.Equal(t, 2, s.EventCount)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), s.TakenAt)
}

func TestSummarize_KeepsPlainTextVerbatim(t *testing.T) {
	report := &models.EvaDtsReport{
		Header:      models.ApplicationHeader{CommunicationID: "A<B"},
		MachineInfo: models.MachineInfo{SerialNumber: "SN4711", Location: strPtr("Bar & Grill")},
	}

	s, err := NewReadingProcessor().Summarize(report, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Bar & Grill", s.Location)
	assert.Equal(t, "A<B", s.CommunicationID)
	assert.Equal(t, *report.MachineInfo.Location, s.Location)
}

func TestSummarize_FallsBackToSerial(t *testing.T) {
	received := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	report := &models.EvaDtsReport{
		MachineInfo: models.MachineInfo{SerialNumber: "SN123"},
		ReadInfo:    models.ReadInfo{ReadDate: strPtr("not-a-date")},
	}

	s, err := NewReadingProcessor().Summarize(report, received)
	require.NoError(t, err)
	assert.Equal(t, "SN123", s.MachineID)
	assert.Empty(t, s.AssetNumber)
	assert.Equal(t, received, s.TakenAt)
}

func TestSummarize_DateWithoutTime(t *testing.T) {
	report := &models.EvaDtsReport{
		MachineInfo: models.MachineInfo{SerialNumber: "SN123"},
		ReadInfo:    models.ReadInfo{ReadDate: strPtr("240615")},
	}

	s, err := NewReadingProcessor().Summarize(report, time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), s.TakenAt)
}

func TestSummarize_Errors(t *testing.T) {
	p := NewReadingProcessor()

	_, err := p.Summarize(&models.EvaDtsReport{}, time.Now())
	assert.ErrorIs(t, err, ErrMissingMachineID)

	_, err = p.Summarize(&models.EvaDtsReport{MachineInfo: models.MachineInfo{SerialNumber: "SN 1 ?"}}, time.Now())
	assert.ErrorIs(t, err, validation.ErrValidationFailed)

	_, err = p.Summarize(nil, time.Now())
	assert.Error(t, err)
}
