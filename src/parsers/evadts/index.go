// src/parsers/evadts/index.go
package evadts

import "strings"

// Segment tags understood by the decoder.
const (
	tagHeader          = "DXS"
	tagTransactionHead = "ST"
	tagTransactionTail = "SE"
	tagMachineID       = "ID1"
	tagCurrency        = "ID4"
	tagPaidVends       = "VA1"
	tagTestVends       = "VA2"
	tagFreeVends       = "VA3"
	tagCashSales       = "CA2"
	tagCashIn          = "CA3"
	tagCashOut         = "CA4"
	tagCashless1Sales  = "DA2"
	tagCashless1Credit = "DA4"
	tagCashless2Sales  = "DB2"
	tagCashless2Credit = "DB4"
	tagProduct         = "PA1"
	tagProductPaid     = "PA2"
	tagProductFree     = "PA4"
	tagProductPayment  = "PA7"
	tagEventTimed      = "EA1"
	tagEventCounted    = "EA2"
	tagReadInfo        = "EA3"
	tagIntegrity       = "G85"
)

// stopSet decides whether a segment closes a forward scan.
type stopSet func(tag string) bool

// productBoundary closes a product block: the next product header, the event
// section, the integrity trailer or the end of the transaction set.
func productBoundary(tag string) bool {
	if strings.HasPrefix(tag, tagProduct) {
		return true
	}
	switch tag {
	case tagEventTimed, tagEventCounted, tagIntegrity, tagTransactionTail:
		return true
	}
	return false
}

// segmentIndex is the ordered segment list of one decode call.
// Lookups are relative to a segment's position because tags such as PA1/PA2/PA7
// repeat once per product.
type segmentIndex struct {
	segments []*dataSegment
}

func newSegmentIndex(segments []dataSegment) *segmentIndex {
	idx := &segmentIndex{segments: make([]*dataSegment, len(segments))}
	for i := range segments {
		seg := segments[i]
		seg.pos = i
		idx.segments[i] = &seg
	}
	return idx
}

// first returns the first segment tagged tag, or nil.
func (x *segmentIndex) first(tag string) *dataSegment {
	for _, seg := range x.segments {
		if seg.tag == tag {
			return seg
		}
	}
	return nil
}

// all returns every segment tagged tag in file order.
func (x *segmentIndex) all(tag string) []*dataSegment {
	var out []*dataSegment
	for _, seg := range x.segments {
		if seg.tag == tag {
			out = append(out, seg)
		}
	}
	return out
}

// nextAfter scans forward from anchor and returns the first segment tagged tag.
// The scan gives up when it meets a segment accepted by stop.
func (x *segmentIndex) nextAfter(anchor *dataSegment, tag string, stop stopSet) *dataSegment {
	if anchor == nil {
		return nil
	}
	for _, seg := range x.segments[anchor.pos+1:] {
		if seg.tag == tag {
			return seg
		}
		if stop(seg.tag) {
			return nil
		}
	}
	return nil
}

// allAfter is nextAfter collecting every match until the stop set is hit.
func (x *segmentIndex) allAfter(anchor *dataSegment, tag string, stop stopSet) []*dataSegment {
	if anchor == nil {
		return nil
	}
	var out []*dataSegment
	for _, seg := range x.segments[anchor.pos+1:] {
		if seg.tag == tag {
			out = append(out, seg)
			continue
		}
		if stop(seg.tag) {
			break
		}
	}
	return out
}
