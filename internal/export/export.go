// Package export renders quotes as Excel workbooks.
package export

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"printcost/internal/domain"
)

const (
	SheetSummary = "Quote"
	SheetItems   = "Items"
	SheetDesigns = "Designs"
	SheetDtf     = "DTF"
)

// QuoteWorkbook writes the quote as an .xlsx workbook to w.
func QuoteWorkbook(w io.Writer, quote domain.Quote) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	yen, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	cost := quote.Cost
	summary := [][2]any{
		{"Quote ID", quote.ID},
		{"Created At", quote.CreatedAt.Format("2006-01-02 15:04")},
		{"Customer", quote.Customer.Name},
		{"Company", quote.Customer.Company},
		{"Email", quote.Customer.Email},
		{"Reorder", quote.IsReorder},
		{"Bring-in", quote.IsBringIn},
		{"", ""},
		{"Garments", cost.TshirtCost},
		{"Setup", cost.SetupCost},
		{"Print", cost.PrintCost},
		{"DTF", cost.DtfCost},
		{"Special ink (included)", cost.SpecialInkCost},
		{"Total", cost.TotalCost},
		{"Tax", cost.Tax},
		{"Shipping", cost.ShippingCost},
		{"Total with tax", cost.TotalCostWithTax},
		{"Quantity", cost.TotalQuantity},
		{"Print quantity", cost.PrintQuantity},
		{"Cost per shirt", cost.CostPerShirt},
	}
	for i, row := range summary {
		r := i + 1
		if err := f.SetCellValue(SheetSummary, cell(1, r), row[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetSummary, cell(2, r), row[1]); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", cell(1, len(summary)), bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "B9", cell(2, len(summary)), yen); err != nil {
		return err
	}
	if quote.Notes != "" {
		if err := f.SetCellValue(SheetSummary, cell(1, len(summary)+2), "Notes"); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetSummary, cell(2, len(summary)+2), quote.Notes); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetSummary, "B", "B", 36); err != nil {
		return err
	}

	items := make([][]any, 0, len(quote.Items))
	for _, item := range quote.Items {
		items = append(items, []any{item.ProductName, item.ProductID, item.Color, item.Size, item.Quantity, item.UnitPrice, item.UnitPrice * int64(item.Quantity)})
	}
	if err := writeTable(f, SheetItems, []string{"Product", "Product ID", "Color", "Size", "Quantity", "Unit Price", "Line Total"}, items, bold); err != nil {
		return err
	}

	unitCosts := make(map[string]domain.ItemPrintCost, len(cost.PrintCostDetail.ByItem))
	for _, ic := range cost.PrintCostDetail.ByItem {
		unitCosts[ic.DesignID] = ic
	}
	designs := make([][]any, 0, len(quote.Designs))
	for _, d := range quote.Designs {
		ic := unitCosts[d.ID]
		designs = append(designs, []any{d.Location, d.Size, d.Colors, d.PlateType, inkSummary(d.SpecialInks), ic.UnitCost, ic.Total})
	}
	if err := writeTable(f, SheetDesigns, []string{"Location", "Size", "Colors", "Plate", "Special Inks", "Unit Print Cost", "Print Total"}, designs, bold); err != nil {
		return err
	}

	if len(quote.DtfDesigns) > 0 {
		rows := make([][]any, 0, len(quote.DtfDesigns))
		for _, d := range quote.DtfDesigns {
			row := []any{d.ID, d.Inputs.LogoWidthMm, d.Inputs.LogoHeightMm, d.Inputs.LogoQuantity, "", ""}
			if res := quote.DtfResults[d.ID]; res != nil {
				row[4] = res.SellingPricePerItem
				row[5] = res.TotalFilmLengthMeters
			}
			rows = append(rows, row)
		}
		if err := writeTable(f, SheetDtf, []string{"Design", "Width (mm)", "Height (mm)", "Quantity", "Price per Item", "Film (m)"}, rows, bold); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// QuoteWorkbookBytes renders the workbook into memory, for attachments.
func QuoteWorkbookBytes(quote domain.Quote) ([]byte, error) {
	var buf bytes.Buffer
	if err := QuoteWorkbook(&buf, quote); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	for col, header := range headers {
		if err := f.SetCellValue(sheet, cell(col+1, 1), header); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", cell(len(headers), 1), headerStyle); err != nil {
		return err
	}
	for r, row := range rows {
		for col, value := range row {
			if err := f.SetCellValue(sheet, cell(col+1, r+2), value); err != nil {
				return err
			}
		}
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func inkSummary(inks []domain.SpecialInk) string {
	if len(inks) == 0 {
		return ""
	}
	counts := make(map[string]int, len(inks))
	for _, ink := range inks {
		counts[ink.Type] += ink.Count
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	var buf bytes.Buffer
	for i, t := range types {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s x%d", t, counts[t])
	}
	return buf.String()
}

// Filename is the download name of a quote workbook.
func Filename(quote domain.Quote) string {
	return fmt.Sprintf("quote_%s_%s.xlsx", quote.ID, quote.CreatedAt.Format("20060102_1504"))
}
