// src/parsers/evadts/sections.go
package evadts

import (
	"github.com/username/vendingreader/backend/src/models"
)

func buildHeader(idx *segmentIndex) models.ApplicationHeader {
	dxs := idx.first(tagHeader)
	return models.ApplicationHeader{
		CommunicationID:     dxs.field(0),
		FunctionalID:        dxs.field(1),
		Version:             dxs.field(2),
		TransmissionControl: dxs.field(3),
	}
}

func buildTransactionSet(idx *segmentIndex) models.TransactionSet {
	st := idx.first(tagTransactionHead)
	se := idx.first(tagTransactionTail)
	return models.TransactionSet{
		TransactionID:    st.field(0),
		ControlNumber:    st.field(1),
		NumberOfSegments: intOr(intField(se, 0), 0),
	}
}

func buildMachineInfo(idx *segmentIndex) models.MachineInfo {
	id1 := idx.first(tagMachineID)
	return models.MachineInfo{
		SerialNumber:  id1.field(0),
		ModelNumber:   stringField(id1, 1),
		BuildStandard: stringField(id1, 2),
		Location:      stringField(id1, 3),
		// Field 4 (machine location code) is not reported.
		AssetNumber: stringField(id1, 5),
	}
}

func buildCurrency(idx *segmentIndex) *models.CurrencyInfo {
	id4 := idx.first(tagCurrency)
	if id4 == nil {
		return nil
	}
	return &models.CurrencyInfo{
		DecimalPosition: intField(id4, 0),
		NumericCode:     stringField(id4, 1),
		AlphabeticCode:  stringField(id4, 2),
	}
}

// buildSalesData reads VA1/VA2/VA3. Paid and free lifetime totals are mandatory in
// the protocol and default to zero; everything else stays absent.
func buildSalesData(idx *segmentIndex) models.SalesData {
	va1 := idx.first(tagPaidVends)
	va2 := idx.first(tagTestVends)
	va3 := idx.first(tagFreeVends)

	return models.SalesData{
		PaidVendValueInit:  floatOr(currencyField(va1, 0), 0),
		PaidVendCountInit:  intOr(intField(va1, 1), 0),
		PaidVendValueReset: currencyField(va1, 2),
		PaidVendCountReset: intField(va1, 3),

		TestVendValueInit:  currencyField(va2, 0),
		TestVendCountInit:  intField(va2, 1),
		TestVendValueReset: currencyField(va2, 2),
		TestVendCountReset: intField(va2, 3),

		FreeVendValueInit:  floatOr(currencyField(va3, 0), 0),
		FreeVendCountInit:  intOr(intField(va3, 1), 0),
		FreeVendValueReset: currencyField(va3, 2),
		FreeVendCountReset: intField(va3, 3),
	}
}

func buildCashData(idx *segmentIndex) models.CashData {
	ca2 := idx.first(tagCashSales)
	ca3 := idx.first(tagCashIn)
	ca4 := idx.first(tagCashOut)

	return models.CashData{
		CashSalesValueInit:  floatOr(currencyField(ca2, 0), 0),
		CashSalesCountInit:  intOr(intField(ca2, 1), 0),
		CashSalesValueReset: currencyField(ca2, 2),
		CashSalesCountReset: intField(ca2, 3),

		// CA3 lists the reset counters before the lifetime ones.
		CashInReset:      currencyField(ca3, 0),
		CashToBoxReset:   currencyField(ca3, 1),
		CashToTubesReset: currencyField(ca3, 2),
		BillsInReset:     currencyField(ca3, 3),
		CashInInit:       currencyField(ca3, 4),
		CashToBoxInit:    currencyField(ca3, 5),
		CashToTubesInit:  currencyField(ca3, 6),
		BillsInInit:      currencyField(ca3, 7),

		CashDispensedReset:       currencyField(ca4, 0),
		CashManualDispensedReset: currencyField(ca4, 1),
		CashDispensedInit:        currencyField(ca4, 2),
		CashManualDispensedInit:  currencyField(ca4, 3),
	}
}

// buildCashlessData returns nil unless at least one cashless system reported sales.
func buildCashlessData(idx *segmentIndex) *models.CashlessData {
	da2 := idx.first(tagCashless1Sales)
	db2 := idx.first(tagCashless2Sales)
	if da2 == nil && db2 == nil {
		return nil
	}
	return &models.CashlessData{
		Cashless1: cashlessSystem(da2, idx.first(tagCashless1Credit)),
		Cashless2: cashlessSystem(db2, idx.first(tagCashless2Credit)),
	}
}

func cashlessSystem(sales, credit *dataSegment) models.CashlessSystem {
	return models.CashlessSystem{
		SalesValueInit:  currencyField(sales, 0),
		SalesCountInit:  intField(sales, 1),
		SalesValueReset: currencyField(sales, 2),
		SalesCountReset: intField(sales, 3),
		CreditedInit:    currencyField(credit, 0),
		CreditedReset:   currencyField(credit, 1),
	}
}

// buildProducts emits one ProductData per PA1 in file order. Detail segments are
// looked up inside the PA1's own block only, so blocks never borrow each other's data.
func buildProducts(idx *segmentIndex) []models.ProductData {
	var products []models.ProductData
	for _, pa1 := range idx.all(tagProduct) {
		productID := pa1.field(0)
		if productID == "" {
			continue
		}

		pa2 := idx.nextAfter(pa1, tagProductPaid, productBoundary)
		pa4 := idx.nextAfter(pa1, tagProductFree, productBoundary)

		products = append(products, models.ProductData{
			ProductID:   productID,
			Price:       currencyField(pa1, 1),
			ProductName: stringField(pa1, 2),

			PaidCountInit:  intField(pa2, 0),
			PaidValueInit:  currencyField(pa2, 1),
			PaidCountReset: intField(pa2, 2),
			PaidValueReset: currencyField(pa2, 3),

			FreeCountInit:  intField(pa4, 0),
			FreeValueInit:  intField(pa4, 1),
			FreeCountReset: intField(pa4, 2),
			FreeValueReset: currencyField(pa4, 3),

			SalesByPayment: buildSalesByPayment(idx.allAfter(pa1, tagProductPayment, productBoundary)),
		})
	}
	return products
}

func buildSalesByPayment(pa7s []*dataSegment) []models.ProductSalesByPayment {
	var out []models.ProductSalesByPayment
	for _, pa7 := range pa7s {
		device := pa7.field(1)
		if device == "" {
			continue
		}
		out = append(out, models.ProductSalesByPayment{
			PaymentDevice:   device,
			PriceList:       intField(pa7, 2),
			AppliedPrice:    currencyField(pa7, 3),
			SalesCountInit:  intField(pa7, 4),
			SalesValueInit:  currencyField(pa7, 5),
			SalesCountReset: intField(pa7, 6),
			SalesValueReset: currencyField(pa7, 7),
		})
	}
	return out
}

// buildEvents lists every EA1 event followed by every EA2 event.
func buildEvents(idx *segmentIndex) []models.EventData {
	var events []models.EventData
	for _, ea1 := range idx.all(tagEventTimed) {
		events = append(events, models.EventData{
			Kind:      models.EventTimestamped,
			EventID:   ea1.field(0),
			EventDate: stringField(ea1, 1),
			EventTime: stringField(ea1, 2),
			Duration:  intField(ea1, 3),
		})
	}
	for _, ea2 := range idx.all(tagEventCounted) {
		events = append(events, models.EventData{
			Kind:       models.EventCounted,
			EventID:    ea2.field(0),
			CountReset: intField(ea2, 1),
			CountInit:  intField(ea2, 2),
			IsActive:   ea2.field(4) == "1",
		})
	}
	return events
}

func buildReadInfo(idx *segmentIndex) models.ReadInfo {
	ea3 := idx.first(tagReadInfo)
	return models.ReadInfo{
		ReadsWithResetInit: intField(ea3, 0),
		ReadDate:           stringField(ea3, 1),
		ReadTime:           stringField(ea3, 2),
		TerminalID:         stringField(ea3, 3),
		LastReadDate:       stringField(ea3, 4),
		LastReadTime:       stringField(ea3, 5),
		LastTerminalID:     stringField(ea3, 6),
		TotalReads:         intField(ea3, 8),
		TotalResets:        intField(ea3, 9),
	}
}

func buildRecordIntegrity(idx *segmentIndex) string {
	return idx.first(tagIntegrity).field(0)
}
