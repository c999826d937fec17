package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"ledgerlens/internal/domain"
)

// RenderedWorkbook is the text form of a spreadsheet handed to the model.
type RenderedWorkbook struct {
	Text    string
	Headers []string // union of header names across sheets, first-seen order
}

// sheetRows is the raw cell text of one sheet, first row holding headers.
type sheetRows struct {
	name string
	rows [][]string
}

// RenderSpreadsheet reads every sheet of a workbook and renders it as
//
//	Sheet: <name>
//	Headers: <h1>, <h2>, ...
//	[ {"<h1>": "...", ...}, ... ]
//
// Blank header cells are named "Column <letter>" and fully blank rows are skipped.
// Legacy binary .xls workbooks are read with a BIFF reader when excelize
// cannot open them.
func RenderSpreadsheet(data []byte) (*RenderedWorkbook, error) {
	sheets, err := readSheets(data)
	if err != nil {
		return nil, err
	}
	return renderSheets(sheets)
}

func readSheets(data []byte) ([]sheetRows, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		if !isCompoundFile(data) {
			return nil, fmt.Errorf("%w: %v", domain.ErrSpreadsheetUnreadable, err)
		}
		sheets, xlsErr := readXLS(data)
		if xlsErr != nil {
			log.WithFields(log.Fields{
				"ooxml_error": err.Error(),
				"biff_error":  xlsErr.Error(),
			}).Warn("extraction.render: legacy workbook unreadable")
			return nil, fmt.Errorf("%w: %v", domain.ErrSpreadsheetUnreadable, xlsErr)
		}
		return sheets, nil
	}
	defer func() { _ = f.Close() }()

	var sheets []sheetRows
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: reading sheet %q: %v", domain.ErrSpreadsheetUnreadable, sheet, err)
		}
		sheets = append(sheets, sheetRows{name: sheet, rows: rows})
	}
	return sheets, nil
}

func renderSheets(sheets []sheetRows) (*RenderedWorkbook, error) {
	var sb strings.Builder
	seen := map[string]bool{}
	var union []string

	for _, sheet := range sheets {
		rows := sheet.rows
		headers := sheetHeaders(rows)
		for _, h := range headers {
			if !seen[h] {
				seen[h] = true
				union = append(union, h)
			}
		}

		records := make([]orderedRow, 0, len(rows))
		if len(rows) > 1 {
			for _, row := range rows[1:] {
				if rec, ok := rowRecord(headers, row); ok {
					records = append(records, rec)
				}
			}
		}

		body, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding sheet %q: %w", sheet.name, err)
		}

		sb.WriteString("Sheet: " + sheet.name + "\n")
		sb.WriteString("Headers: " + strings.Join(headers, ", ") + "\n")
		sb.Write(body)
		sb.WriteString("\n\n")
	}

	return &RenderedWorkbook{Text: sb.String(), Headers: union}, nil
}

// HeadersFromPreview recovers the header names from text already rendered in
// the RenderSpreadsheet layout.
func HeadersFromPreview(preview string) []string {
	seen := map[string]bool{}
	var out []string
	for _, line := range strings.Split(preview, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Headers:")
		if !ok {
			continue
		}
		for _, h := range strings.Split(rest, ",") {
			h = strings.TrimSpace(h)
			if h != "" && !seen[h] {
				seen[h] = true
				out = append(out, h)
			}
		}
	}
	return out
}

func sheetHeaders(rows [][]string) []string {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	headers := make([]string, width)
	used := map[string]int{}
	for i := 0; i < width; i++ {
		var h string
		if i < len(rows[0]) {
			h = strings.TrimSpace(rows[0][i])
		}
		if h == "" {
			col, _ := excelize.ColumnNumberToName(i + 1)
			h = "Column " + col
		}
		if n, dup := used[h]; dup {
			used[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n)
		} else {
			used[h] = 1
		}
		headers[i] = h
	}
	return headers
}

type cell struct {
	key   string
	value string
}

// orderedRow marshals as a JSON object that keeps column order.
type orderedRow []cell

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func rowRecord(headers []string, row []string) (orderedRow, bool) {
	var rec orderedRow
	for i, v := range row {
		v = strings.TrimSpace(v)
		if v == "" || i >= len(headers) {
			continue
		}
		rec = append(rec, cell{key: headers[i], value: v})
	}
	return rec, len(rec) > 0
}
