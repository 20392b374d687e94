// src/parsers/evadts/parser.go
package evadts

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/username/vendingreader/backend/src/models"
)

var (
	ErrEmptyInput = errors.New("eva-dts input contains no segments")
	ErrNotText    = errors.New("eva-dts input is not text")
	ErrReadFailed = errors.New("eva-dts input could not be read")
)

// EvaDtsParser decodes EVA-DTS audit dumps. It holds no state, so one value may be
// shared by any number of goroutines.
type EvaDtsParser struct{}

// NewParser creates a new instance of the EvaDtsParser.
func NewParser() *EvaDtsParser {
	return &EvaDtsParser{}
}

// Parse reads the whole dump from r and decodes it.
func (p *EvaDtsParser) Parse(r io.Reader) (*models.EvaDtsReport, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return p.Decode(string(raw))
}

// Decode turns the text of one dump into a report. It fails only when the text
// is binary or holds no lines at all; malformed fields degrade to absent values.
func (p *EvaDtsParser) Decode(text string) (*models.EvaDtsReport, error) {
	if strings.IndexByte(text, 0) != -1 {
		return nil, ErrNotText
	}
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	segments := make([]dataSegment, 0, len(lines))
	for _, line := range lines {
		segments = append(segments, tokenize(line))
	}
	report := buildReport(newSegmentIndex(segments))
	return &report, nil
}

// Decode is a convenience wrapper around a throwaway EvaDtsParser.
func Decode(text string) (*models.EvaDtsReport, error) {
	return NewParser().Decode(text)
}

func buildReport(idx *segmentIndex) models.EvaDtsReport {
	return models.EvaDtsReport{
		Header:          buildHeader(idx),
		TransactionSet:  buildTransactionSet(idx),
		MachineInfo:     buildMachineInfo(idx),
		Currency:        buildCurrency(idx),
		SalesData:       buildSalesData(idx),
		CashData:        buildCashData(idx),
		CashlessData:    buildCashlessData(idx),
		Products:        buildProducts(idx),
		Events:          buildEvents(idx),
		ReadInfo:        buildReadInfo(idx),
		RecordIntegrity: buildRecordIntegrity(idx),
	}
}
