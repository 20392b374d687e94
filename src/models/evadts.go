// src/models/evadts.go
package models

// EvaDtsReport is the decoded form of one EVA-DTS audit dump.
// Pointer fields are optional: nil means the value was absent in the source text,
// which is distinct from a reported zero.
type EvaDtsReport struct {
	Header          ApplicationHeader `json:"header"`
	TransactionSet  TransactionSet    `json:"transaction_set"`
	MachineInfo     MachineInfo       `json:"machine_info"`
	Currency        *CurrencyInfo     `json:"currency,omitempty"`
	SalesData       SalesData         `json:"sales_data"`
	CashData        CashData          `json:"cash_data"`
	CashlessData    *CashlessData     `json:"cashless_data,omitempty"`
	Products        []ProductData     `json:"products"`
	Events          []EventData       `json:"events"`
	ReadInfo        ReadInfo          `json:"read_info"`
	RecordIntegrity string            `json:"record_integrity"` // Raw G85 token, never verified
}

// ApplicationHeader comes from the DXS segment.
type ApplicationHeader struct {
	CommunicationID     string `json:"communication_id"`
	FunctionalID        string `json:"functional_id"`
	Version             string `json:"version"`
	TransmissionControl string `json:"transmission_control"`
}

// TransactionSet comes from the ST/SE envelope.
type TransactionSet struct {
	TransactionID    string `json:"transaction_id"`
	ControlNumber    string `json:"control_number"`
	NumberOfSegments int    `json:"number_of_segments"`
}

// MachineInfo comes from ID1.
type MachineInfo struct {
	SerialNumber  string  `json:"serial_number"`
	ModelNumber   *string `json:"model_number,omitempty"`
	BuildStandard *string `json:"build_standard,omitempty"`
	Location      *string `json:"location,omitempty"`
	AssetNumber   *string `json:"asset_number,omitempty"`
}

// CurrencyInfo comes from ID4. Amounts are always scaled by 100 regardless of DecimalPosition.
type CurrencyInfo struct {
	DecimalPosition *int    `json:"decimal_position,omitempty"`
	NumericCode     *string `json:"numeric_code,omitempty"`
	AlphabeticCode  *string `json:"alphabetic_code,omitempty"`
}

// SalesData holds the VA1 (paid), VA2 (test) and VA3 (free) vend totals.
type SalesData struct {
	// Paid vends
	PaidVendValueInit  float64  `json:"paid_vend_value_init"`
	PaidVendCountInit  int      `json:"paid_vend_count_init"`
	PaidVendValueReset *float64 `json:"paid_vend_value_reset,omitempty"`
	PaidVendCountReset *int     `json:"paid_vend_count_reset,omitempty"`

	// Test vends
	TestVendValueInit  *float64 `json:"test_vend_value_init,omitempty"`
	TestVendCountInit  *int     `json:"test_vend_count_init,omitempty"`
	TestVendValueReset *float64 `json:"test_vend_value_reset,omitempty"`
	TestVendCountReset *int     `json:"test_vend_count_reset,omitempty"`

	// Free vends
	FreeVendValueInit  float64  `json:"free_vend_value_init"`
	FreeVendCountInit  int      `json:"free_vend_count_init"`
	FreeVendValueReset *float64 `json:"free_vend_value_reset,omitempty"`
	FreeVendCountReset *int     `json:"free_vend_count_reset,omitempty"`
}

// CashData holds cash sales (CA2), cash in (CA3) and cash out (CA4).
type CashData struct {
	CashSalesValueInit  float64  `json:"cash_sales_value_init"`
	CashSalesCountInit  int      `json:"cash_sales_count_init"`
	CashSalesValueReset *float64 `json:"cash_sales_value_reset,omitempty"`
	CashSalesCountReset *int     `json:"cash_sales_count_reset,omitempty"`

	CashInReset      *float64 `json:"cash_in_reset,omitempty"`
	CashToBoxReset   *float64 `json:"cash_to_box_reset,omitempty"`
	CashToTubesReset *float64 `json:"cash_to_tubes_reset,omitempty"`
	BillsInReset     *float64 `json:"bills_in_reset,omitempty"`
	CashInInit       *float64 `json:"cash_in_init,omitempty"`
	CashToBoxInit    *float64 `json:"cash_to_box_init,omitempty"`
	CashToTubesInit  *float64 `json:"cash_to_tubes_init,omitempty"`
	BillsInInit      *float64 `json:"bills_in_init,omitempty"`

	CashDispensedReset       *float64 `json:"cash_dispensed_reset,omitempty"`
	CashManualDispensedReset *float64 `json:"cash_manual_dispensed_reset,omitempty"`
	CashDispensedInit        *float64 `json:"cash_dispensed_init,omitempty"`
	CashManualDispensedInit  *float64 `json:"cash_manual_dispensed_init,omitempty"`
}

// CashlessData holds the two cashless subsystems (DA*, DB*).
type CashlessData struct {
	Cashless1 CashlessSystem `json:"cashless1"`
	Cashless2 CashlessSystem `json:"cashless2"`
}

// CashlessSystem is one cashless channel: sales from DA2/DB2, credited amounts from DA4/DB4.
type CashlessSystem struct {
	SalesValueInit  *float64 `json:"sales_value_init,omitempty"`
	SalesCountInit  *int     `json:"sales_count_init,omitempty"`
	SalesValueReset *float64 `json:"sales_value_reset,omitempty"`
	SalesCountReset *int     `json:"sales_count_reset,omitempty"`
	CreditedInit    *float64 `json:"credited_init,omitempty"`
	CreditedReset   *float64 `json:"credited_reset,omitempty"`
}

// ProductData is one PA1 block with the PA2, PA4 and PA7 segments that follow it.
type ProductData struct {
	ProductID   string   `json:"product_id"`
	Price       *float64 `json:"price,omitempty"`
	ProductName *string  `json:"product_name,omitempty"`

	// PA2
	PaidCountInit  *int     `json:"paid_count_init,omitempty"`
	PaidValueInit  *float64 `json:"paid_value_init,omitempty"`
	PaidCountReset *int     `json:"paid_count_reset,omitempty"`
	PaidValueReset *float64 `json:"paid_value_reset,omitempty"`

	// PA4. FreeValueInit is reported unscaled, FreeValueReset in currency units.
	FreeCountInit  *int     `json:"free_count_init,omitempty"`
	FreeValueInit  *int     `json:"free_value_init,omitempty"`
	FreeCountReset *int     `json:"free_count_reset,omitempty"`
	FreeValueReset *float64 `json:"free_value_reset,omitempty"`

	SalesByPayment []ProductSalesByPayment `json:"sales_by_payment,omitempty"`
}

// ProductSalesByPayment is one PA7 entry.
type ProductSalesByPayment struct {
	PaymentDevice   string   `json:"payment_device"` // e.g. CA, DA, DB, TA
	PriceList       *int     `json:"price_list,omitempty"`
	AppliedPrice    *float64 `json:"applied_price,omitempty"`
	SalesCountInit  *int     `json:"sales_count_init,omitempty"`
	SalesValueInit  *float64 `json:"sales_value_init,omitempty"`
	SalesCountReset *int     `json:"sales_count_reset,omitempty"`
	SalesValueReset *float64 `json:"sales_value_reset,omitempty"`
}

// EventKind tells which segment an EventData came from.
type EventKind string

const (
	EventTimestamped EventKind = "timestamped" // EA1
	EventCounted     EventKind = "counted"     // EA2
)

// EventData is one EA1 or EA2 occurrence. The two kinds populate disjoint fields.
type EventData struct {
	Kind      EventKind `json:"kind"`
	EventID   string    `json:"event_id"`
	EventDate *string   `json:"event_date,omitempty"`
	EventTime *string   `json:"event_time,omitempty"`
	Duration  *int      `json:"duration,omitempty"`

	CountReset *int `json:"count_reset,omitempty"`
	CountInit  *int `json:"count_init,omitempty"`
	IsActive   bool `json:"is_active"`
}

// ReadInfo comes from EA3.
type ReadInfo struct {
	ReadsWithResetInit *int    `json:"reads_with_reset_init,omitempty"`
	ReadDate           *string `json:"read_date,omitempty"`
	ReadTime           *string `json:"read_time,omitempty"`
	TerminalID         *string `json:"terminal_id,omitempty"`
	LastReadDate       *string `json:"last_read_date,omitempty"`
	LastReadTime       *string `json:"last_read_time,omitempty"`
	LastTerminalID     *string `json:"last_terminal_id,omitempty"`
	TotalReads         *int    `json:"total_reads,omitempty"`
	TotalResets        *int    `json:"total_resets,omitempty"`
}
