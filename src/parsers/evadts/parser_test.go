package evadts

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/vendingreader/backend/src/models"
)

func loadAudit(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile("testdata/audit.eva")
	require.NoError(t, err)
	return string(raw)
}

func TestDecodeFullAudit(t *testing.T) {
	report, err := NewParser().Decode(loadAudit(t))
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationHeader{
		CommunicationID:     "XYZ1234567",
		FunctionalID:        "VA",
		Version:             "V0/6",
		TransmissionControl: "1",
	}, report.Header)
	assert.Equal(t, models.TransactionSet{TransactionID: "001", ControlNumber: "0001", NumberOfSegments: 27}, report.TransactionSet)

	mi := report.MachineInfo
	assert.Equal(t, "SN4711", mi.SerialNumber)
	assert.Equal(t, "MOD-9", *mi.ModelNumber)
	assert.Equal(t, "BS2", *mi.BuildStandard)
	assert.Equal(t, "Lobby", *mi.Location)
	assert.Equal(t, "ASSET-22", *mi.AssetNumber)

	require.NotNil(t, report.Currency)
	assert.Equal(t, 2, *report.Currency.DecimalPosition)
	assert.Equal(t, "978", *report.Currency.NumericCode)
	assert.Equal(t, "EUR", *report.Currency.AlphabeticCode)

	sales := report.SalesData
	assert.Equal(t, 1250.50, sales.PaidVendValueInit)
	assert.Equal(t, 803, sales.PaidVendCountInit)
	assert.Equal(t, 45.50, *sales.PaidVendValueReset)
	assert.Equal(t, 31, *sales.PaidVendCountReset)
	assert.Equal(t, 3.0, *sales.TestVendValueInit)
	assert.Equal(t, 5, sales.FreeVendCountInit)

	cash := report.CashData
	assert.Equal(t, 980.0, cash.CashSalesValueInit)
	assert.Equal(t, 640, cash.CashSalesCountInit)
	assert.Equal(t, 40.0, *cash.CashInReset)
	assert.Equal(t, 1020.0, *cash.CashInInit)
	assert.Equal(t, 10.0, *cash.BillsInInit)
	assert.Equal(t, 12.0, *cash.CashDispensedReset)
	assert.Equal(t, 5.0, *cash.CashManualDispensedInit)

	require.NotNil(t, report.CashlessData)
	assert.Equal(t, 270.50, *report.CashlessData.Cashless1.SalesValueInit)
	assert.Equal(t, 300.0, *report.CashlessData.Cashless1.CreditedInit)
	assert.Nil(t, report.CashlessData.Cashless2.SalesValueInit)

	require.Len(t, report.Products, 3)
	cola := report.Products[0]
	assert.Equal(t, "10", cola.ProductID)
	assert.Equal(t, 1.5, *cola.Price)
	assert.Equal(t, "Cola", *cola.ProductName)
	assert.Equal(t, 120, *cola.PaidCountInit)
	assert.Equal(t, 180.0, *cola.PaidValueInit)
	assert.Equal(t, 300, *cola.FreeValueInit)
	require.Len(t, cola.SalesByPayment, 2)
	assert.Equal(t, "CA", cola.SalesByPayment[0].PaymentDevice)
	assert.Equal(t, 0, *cola.SalesByPayment[0].PriceList)
	assert.Equal(t, "DA", cola.SalesByPayment[1].PaymentDevice)
	assert.Equal(t, 1.4, *cola.SalesByPayment[1].AppliedPrice)

	water := report.Products[1]
	assert.Equal(t, 80, *water.PaidCountInit)
	assert.Nil(t, water.FreeCountInit)
	assert.Empty(t, water.SalesByPayment)

	empty := report.Products[2]
	assert.Equal(t, "12", empty.ProductID)
	assert.Nil(t, empty.Price)
	assert.Nil(t, empty.ProductName)
	assert.Nil(t, empty.PaidCountInit)

	require.Len(t, report.Events, 3)
	assert.Equal(t, models.EventTimestamped, report.Events[0].Kind)
	assert.Equal(t, "EGS", report.Events[0].EventID)
	assert.Equal(t, 30, *report.Events[0].Duration)
	assert.Equal(t, models.EventCounted, report.Events[1].Kind)
	assert.True(t, report.Events[1].IsActive)
	assert.Equal(t, 14, *report.Events[1].CountInit)
	assert.False(t, report.Events[2].IsActive)
	assert.Nil(t, report.Events[2].EventDate)

	ri := report.ReadInfo
	assert.Equal(t, 12, *ri.ReadsWithResetInit)
	assert.Equal(t, "T01", *ri.TerminalID)
	assert.Equal(t, 40, *ri.TotalReads)
	assert.Equal(t, 12, *ri.TotalResets)

	assert.Equal(t, "1A2B", report.RecordIntegrity)
}

func TestDecodeCashSalesWithoutReset(t *testing.T) {
	report, err := Decode("CA2*2700*12")
	require.NoError(t, err)

	assert.Equal(t, 27.0, report.CashData.CashSalesValueInit)
	assert.Equal(t, 12, report.CashData.CashSalesCountInit)
	assert.Nil(t, report.CashData.CashSalesValueReset)
	assert.Nil(t, report.CashData.CashSalesCountReset)
}

func TestDecodeMachineInfoBlankField(t *testing.T) {
	report, err := Decode("ID1*SN123*M1**loc*5*A99")
	require.NoError(t, err)

	mi := report.MachineInfo
	assert.Equal(t, "SN123", mi.SerialNumber)
	assert.Nil(t, mi.BuildStandard)
	require.NotNil(t, mi.Location)
	assert.Equal(t, "loc", *mi.Location)
	require.NotNil(t, mi.AssetNumber)
	assert.Equal(t, "A99", *mi.AssetNumber)
}

func TestDecodeProductsDoNotShareDetails(t *testing.T) {
	text := strings.Join([]string{
		"PA1*1*100*A",
		"PA2*10*1000*1*100",
		"PA7*1*CA*0*100*10*1000*1*100",
		"PA1*2*200*B",
		"PA2*20*4000*2*400",
		"PA7*2*DA*1*200*20*4000*2*400",
		"PA7*2*CA*0*200*5*1000*0*0",
	}, "\n")
	report, err := Decode(text)
	require.NoError(t, err)
	require.Len(t, report.Products, 2)

	a, b := report.Products[0], report.Products[1]
	assert.Equal(t, 10, *a.PaidCountInit)
	require.Len(t, a.SalesByPayment, 1)
	assert.Equal(t, "CA", a.SalesByPayment[0].PaymentDevice)

	assert.Equal(t, 20, *b.PaidCountInit)
	require.Len(t, b.SalesByPayment, 2)
	assert.Equal(t, "DA", b.SalesByPayment[0].PaymentDevice)
	assert.Equal(t, "CA", b.SalesByPayment[1].PaymentDevice)
}

func TestDecodeDetailAfterTrailerNotAttached(t *testing.T) {
	for _, trailer := range []string{"SE*5", "G85*FFFF"} {
		text := "PA1*1*100*A\nPA2*10*1000\n" + trailer + "\nPA7*1*CA*0*100*10*1000*1*100\nPA4*1*100"
		report, err := Decode(text)
		require.NoError(t, err)
		require.Len(t, report.Products, 1)
		assert.Empty(t, report.Products[0].SalesByPayment, "trailer %s", trailer)
		assert.Nil(t, report.Products[0].FreeCountInit, "trailer %s", trailer)
		assert.Equal(t, 10, *report.Products[0].PaidCountInit)
	}
}

func TestDecodeSkipsProductsWithoutID(t *testing.T) {
	report, err := Decode("PA1**100*Ghost\nPA2*1*100\nPA1*7*50\nPA7*7**0*50")
	require.NoError(t, err)
	require.Len(t, report.Products, 1)
	assert.Equal(t, "7", report.Products[0].ProductID)
	assert.Nil(t, report.Products[0].SalesByPayment, "PA7 without payment device is dropped")
}

func TestDecodeProductFreeValues(t *testing.T) {
	report, err := Decode("PA1*1*100\nPA4*2*300*1*250")
	require.NoError(t, err)
	require.Len(t, report.Products, 1)

	p := report.Products[0]
	assert.Equal(t, 2, *p.FreeCountInit)
	assert.Equal(t, 300, *p.FreeValueInit)
	assert.Equal(t, 1, *p.FreeCountReset)
	assert.Equal(t, 2.5, *p.FreeValueReset)
}

func TestDecodeMinimalAudit(t *testing.T) {
	text := "DXS*ABC*VA*V1*1\r\nID1*SN9\r\nVA1*500*5\r\nCA2*300*3\r\nPA1*42\r\nG85*C0DE\r\n"
	report, err := Decode(text)
	require.NoError(t, err)

	assert.Equal(t, "ABC", report.Header.CommunicationID)
	assert.Equal(t, 5.0, report.SalesData.PaidVendValueInit)
	assert.Equal(t, 3.0, report.CashData.CashSalesValueInit)
	require.Len(t, report.Products, 1)
	p := report.Products[0]
	assert.Equal(t, "42", p.ProductID)
	assert.Nil(t, p.Price)
	assert.Nil(t, p.PaidCountInit)
	assert.Nil(t, p.FreeCountInit)
	assert.Nil(t, p.SalesByPayment)
	assert.Equal(t, "C0DE", report.RecordIntegrity)
	assert.Nil(t, report.CashlessData)
	assert.Nil(t, report.Currency)
}

func TestDecodeMissingMandatorySegmentsDefaultToZero(t *testing.T) {
	report, err := Decode("DXS*ABC")
	require.NoError(t, err)

	assert.Zero(t, report.SalesData.PaidVendValueInit)
	assert.Zero(t, report.SalesData.FreeVendCountInit)
	assert.Zero(t, report.CashData.CashSalesValueInit)
	assert.Nil(t, report.SalesData.TestVendValueInit)
	assert.Nil(t, report.CashData.CashInInit)
	assert.Equal(t, 0, report.TransactionSet.NumberOfSegments)
	assert.Equal(t, "", report.MachineInfo.SerialNumber)
	assert.Equal(t, "", report.RecordIntegrity)
}

func TestDecodeMalformedFieldDegradesOnlyThatField(t *testing.T) {
	report, err := Decode("VA1*12x4*10*500*2\nCA2*100*1")
	require.NoError(t, err)

	assert.Zero(t, report.SalesData.PaidVendValueInit)
	assert.Equal(t, 10, report.SalesData.PaidVendCountInit)
	assert.Equal(t, 5.0, *report.SalesData.PaidVendValueReset)
	assert.Equal(t, 1.0, report.CashData.CashSalesValueInit)
}

func TestDecodeCashlessSecondSystemOnly(t *testing.T) {
	report, err := Decode("DB2*1000*4\nDB4*2000*0\nDA4*500*0")
	require.NoError(t, err)
	require.NotNil(t, report.CashlessData)
	assert.Equal(t, 10.0, *report.CashlessData.Cashless2.SalesValueInit)
	assert.Equal(t, 0.0, *report.CashlessData.Cashless2.CreditedReset)
	assert.Equal(t, 5.0, *report.CashlessData.Cashless1.CreditedInit)
	assert.Nil(t, report.CashlessData.Cashless1.SalesCountInit)
}

func TestDecodeIgnoresUnknownTags(t *testing.T) {
	report, err := Decode("LE1*foo\nMA5*bar\nCA2*100*1\nZZ9")
	require.NoError(t, err)
	assert.Equal(t, 1.0, report.CashData.CashSalesValueInit)
}

func TestDecodeEmptyInputFails(t *testing.T) {
	for _, text := range []string{"", "\r\n\r\n", "   \n\t"} {
		report, err := Decode(text)
		assert.Nil(t, report)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
}

func TestBuildReportFromNoSegmentsIsDefault(t *testing.T) {
	report := buildReport(newSegmentIndex(nil))
	assert.Equal(t, models.EvaDtsReport{}, report)
}

func TestDecodeRejectsBinary(t *testing.T) {
	_, err := Decode("DXS*A\x00\x01")
	assert.ErrorIs(t, err, ErrNotText)
}

func TestParseReadFailure(t *testing.T) {
	_, err := NewParser().Parse(iotest.ErrReader(errors.New("disk gone")))
	assert.ErrorIs(t, err, ErrReadFailed)
}

func TestParseReader(t *testing.T) {
	report, err := NewParser().Parse(strings.NewReader(loadAudit(t)))
	require.NoError(t, err)
	assert.Equal(t, "SN4711", report.MachineInfo.SerialNumber)
}

func TestDecodeIsIdempotentAndConcurrent(t *testing.T) {
	text := loadAudit(t)
	want, err := Decode(text)
	require.NoError(t, err)

	p := NewParser()
	var wg sync.WaitGroup
	results := make([]*models.EvaDtsReport, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = p.Decode(text)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
