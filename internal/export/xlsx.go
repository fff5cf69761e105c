// Package export renders report data into downloadable spreadsheets.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/danuarta/dompetku/internal/report"
)

// sheetTitleLimit is the hard cap Excel places on worksheet names.
const sheetTitleLimit = 31

var lineHeaders = []string{"Date", "Description", "Direction", "Amount", "Fee", "Running Balance"}

// StatementWorkbook builds an xlsx workbook from a statement: a summary
// sheet with cross-wallet totals in the base currency, then one sheet
// per wallet with its replayed transaction lines.
func StatementWorkbook(st *report.Statement) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, st, bold); err != nil {
		return nil, err
	}

	titles := map[string]bool{"Summary": true}
	for _, ws := range st.Wallets {
		title := sheetTitle(ws.Wallet.Name, titles)
		if err := writeWalletSheet(f, title, &ws, bold); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSummarySheet(f *excelize.File, st *report.Statement, bold int) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Account Statement"},
		{"Period", st.Start.Format("2006-01-02") + " to " + st.End.Format("2006-01-02")},
		{"Base Currency", st.BaseCurrency},
		{},
		{"Wallet", "Currency", "Opening", "Income", "Expense", "Closing"},
	}
	for _, ws := range st.Wallets {
		rows = append(rows, []interface{}{
			ws.Wallet.Name,
			ws.Wallet.Currency,
			ws.Summary.Opening.StringFixed(2),
			ws.Summary.Income.StringFixed(2),
			ws.Summary.Expense.StringFixed(2),
			ws.Summary.Closing.StringFixed(2),
		})
	}
	rows = append(rows, []interface{}{
		"Total (" + st.BaseCurrency + ")",
		st.BaseCurrency,
		st.Totals.Opening.StringFixed(2),
		st.Totals.Income.StringFixed(2),
		st.Totals.Expense.StringFixed(2),
		st.Totals.Closing.StringFixed(2),
	})

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address summary row: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A5", "F5", bold); err != nil {
		return err
	}
	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "F", 14)
	return nil
}

func writeWalletSheet(f *excelize.File, sheet string, ws *report.WalletStatement, bold int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create wallet sheet: %w", err)
	}

	head := [][]interface{}{
		{ws.Wallet.Name + " (" + ws.Wallet.Currency + ")"},
		{"Opening Balance", ws.Summary.Opening.StringFixed(2)},
		{},
	}
	header := make([]interface{}, len(lineHeaders))
	for i, h := range lineHeaders {
		header[i] = h
	}
	head = append(head, header)

	for i, row := range head {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address statement row: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write statement row: %w", err)
		}
	}

	for i, line := range ws.Lines {
		row := []interface{}{
			line.Date.Format("2006-01-02"),
			line.Description,
			string(line.Direction),
			line.Amount.StringFixed(2),
			line.Fee.StringFixed(2),
			line.Running.StringFixed(2),
		}
		cell, err := excelize.CoordinatesToCellName(1, len(head)+i+1)
		if err != nil {
			return fmt.Errorf("failed to address statement line: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write statement line: %w", err)
		}
	}

	footerRow := len(head) + len(ws.Lines) + 2
	footer := []interface{}{"Closing Balance", "", "", "", "", ws.Summary.Closing.StringFixed(2)}
	cell, err := excelize.CoordinatesToCellName(1, footerRow)
	if err != nil {
		return fmt.Errorf("failed to address statement footer: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &footer); err != nil {
		return fmt.Errorf("failed to write statement footer: %w", err)
	}

	if err := f.SetCellStyle(sheet, "A1", "A1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A4", "F4", bold); err != nil {
		return err
	}
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 32)
	f.SetColWidth(sheet, "C", "F", 14)
	return nil
}

// sheetTitle sanitizes a wallet name into a unique worksheet title.
// Excel forbids a handful of characters and caps titles at 31 runes.
func sheetTitle(name string, taken map[string]bool) string {
	replacer := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ")
	title := strings.TrimSpace(replacer.Replace(name))
	if title == "" {
		title = "Wallet"
	}
	if len(title) > sheetTitleLimit {
		title = title[:sheetTitleLimit]
	}

	candidate := title
	for i := 2; taken[candidate]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		if len(title)+len(suffix) > sheetTitleLimit {
			candidate = title[:sheetTitleLimit-len(suffix)] + suffix
		} else {
			candidate = title + suffix
		}
	}
	taken[candidate] = true
	return candidate
}
