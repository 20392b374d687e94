package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/username/vendingreader/backend/src/models"
	"github.com/username/vendingreader/backend/src/processors"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary  = "Summary"
	sheetProducts = "Products"
	sheetEvents   = "Events"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <file|->",
		Short: "Export a decoded audit file to an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := decodeFile(cmd, args[0])
			if err != nil {
				return err
			}
			summary, err := processors.NewReadingProcessor().Summarize(report, time.Now())
			if err != nil {
				return err
			}
			if err := writeWorkbook(output, report, summary); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "wrote %s (%d products, %d events)\n",
				output, len(report.Products), len(report.Events))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "audit.xlsx", "Path of the workbook to write")
	return cmd
}

func optFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func optInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func optString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// writeWorkbook lays the report out on three sheets: machine totals, one row per
// product and one row per event.
func writeWorkbook(path string, report *models.EvaDtsReport, summary *models.ReadingSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	summaryRows := [][]any{
		{"Machine", summary.MachineID},
		{"Serial number", summary.SerialNumber},
		{"Asset number", summary.AssetNumber},
		{"Location", summary.Location},
		{"Communication ID", summary.CommunicationID},
		{"Taken at", summary.TakenAt.Format(time.RFC3339)},
		{"Paid value", summary.PaidValue},
		{"Paid vends", summary.PaidCount},
		{"Cash sales", summary.CashValue},
		{"Free vends", report.SalesData.FreeVendCountInit},
		{"Record integrity", report.RecordIntegrity},
	}
	if report.Currency != nil {
		summaryRows = append(summaryRows, []any{"Currency", optString(report.Currency.AlphabeticCode)})
	}
	if err := writeRows(f, sheetSummary, summaryRows); err != nil {
		return err
	}

	productRows := [][]any{{"Product", "Name", "Price", "Paid vends", "Paid value", "Free vends", "Free value", "Payment devices"}}
	for _, p := range report.Products {
		productRows = append(productRows, []any{
			p.ProductID, optString(p.ProductName), optFloat(p.Price),
			optInt(p.PaidCountInit), optFloat(p.PaidValueInit),
			optInt(p.FreeCountInit), optInt(p.FreeValueInit),
			len(p.SalesByPayment),
		})
	}
	if _, err := f.NewSheet(sheetProducts); err != nil {
		return fmt.Errorf("failed to add products sheet: %w", err)
	}
	if err := writeRows(f, sheetProducts, productRows); err != nil {
		return err
	}

	eventRows := [][]any{{"Event", "Kind", "Date", "Time", "Duration", "Count (reset)", "Count (init)", "Active"}}
	for _, e := range report.Events {
		eventRows = append(eventRows, []any{
			e.EventID, string(e.Kind), optString(e.EventDate), optString(e.EventTime),
			optInt(e.Duration), optInt(e.CountReset), optInt(e.CountInit), e.IsActive,
		})
	}
	if _, err := f.NewSheet(sheetEvents); err != nil {
		return fmt.Errorf("failed to add events sheet: %w", err)
	}
	if err := writeRows(f, sheetEvents, eventRows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
