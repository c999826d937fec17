package extraction

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/extrame/xls"
	"github.com/richardlehane/mscfb"
)

// Compound file (OLE2) layout constants for version 3 files.
const (
	cfbSectorSize = 512
	cfbMiniCutoff = 4096
	cfbHeaderFATs = 109

	cfbFreeSect   = 0xFFFFFFFF
	cfbEndOfChain = 0xFFFFFFFE
	cfbFATSect    = 0xFFFFFFFD
	cfbNoStream   = 0xFFFFFFFF
)

// maxXLSColumns is the BIFF8 column limit.
const maxXLSColumns = 256

// xlsFormulaMarker is what the BIFF reader returns for formula cells in place
// of their cached value.
const xlsFormulaMarker = "FormulaCol"

var cfbSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

func isCompoundFile(data []byte) bool {
	return bytes.HasPrefix(data, cfbSignature)
}

// readXLS renders a legacy binary (BIFF) workbook. The Workbook stream is
// pulled out with mscfb, which validates the container, and re-wrapped in a
// plain compound file before the BIFF records are parsed.
func readXLS(data []byte) ([]sheetRows, error) {
	stream, err := workbookStream(data)
	if err != nil {
		return nil, err
	}
	container, err := wrapCompoundFile(stream)
	if err != nil {
		return nil, err
	}
	return parseBIFF(container)
}

func workbookStream(data []byte) ([]byte, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading compound file: %w", err)
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "Workbook" && entry.Name != "Book" {
			continue
		}
		if entry.Size <= 0 || entry.Size > int64(len(data)) {
			return nil, fmt.Errorf("workbook stream has bad size %d", entry.Size)
		}
		buf := make([]byte, entry.Size)
		if _, err := io.ReadFull(doc, buf); err != nil {
			return nil, fmt.Errorf("reading workbook stream: %w", err)
		}
		return buf, nil
	}
	return nil, errors.New("no workbook stream in compound file")
}

// wrapCompoundFile builds a version 3 compound file holding stream as its
// only entry, "Workbook". The layout is FAT sectors, one directory sector,
// then the stream in contiguous sectors. The stream is padded to the mini
// stream cutoff so it always lives in regular sectors.
func wrapCompoundFile(stream []byte) ([]byte, error) {
	size := max(len(stream), cfbMiniCutoff)
	nStream := (size + cfbSectorSize - 1) / cfbSectorSize
	perFAT := cfbSectorSize / 4

	nFAT := 1
	for nFAT*perFAT < nFAT+1+nStream {
		nFAT++
	}
	if nFAT > cfbHeaderFATs {
		return nil, fmt.Errorf("workbook stream of %d bytes is too large", len(stream))
	}

	dirSect := nFAT
	first := nFAT + 1
	out := make([]byte, cfbSectorSize*(1+first+nStream))
	le := binary.LittleEndian

	h := out[:cfbSectorSize]
	copy(h, cfbSignature)
	le.PutUint16(h[24:], 0x003E)
	le.PutUint16(h[26:], 3)
	le.PutUint16(h[28:], 0xFFFE)
	le.PutUint16(h[30:], 9)
	le.PutUint16(h[32:], 6)
	le.PutUint32(h[44:], uint32(nFAT))
	le.PutUint32(h[48:], uint32(dirSect))
	le.PutUint32(h[56:], cfbMiniCutoff)
	le.PutUint32(h[60:], cfbEndOfChain)
	le.PutUint32(h[68:], cfbEndOfChain)
	for i := 0; i < cfbHeaderFATs; i++ {
		v := uint32(cfbFreeSect)
		if i < nFAT {
			v = uint32(i)
		}
		le.PutUint32(h[76+4*i:], v)
	}

	fat := make([]uint32, nFAT*perFAT)
	for i := range fat {
		fat[i] = cfbFreeSect
	}
	for i := 0; i < nFAT; i++ {
		fat[i] = cfbFATSect
	}
	fat[dirSect] = cfbEndOfChain
	for i := 0; i < nStream; i++ {
		fat[first+i] = uint32(first + i + 1)
	}
	fat[first+nStream-1] = cfbEndOfChain
	for i, v := range fat {
		le.PutUint32(out[cfbSectorSize+4*i:], v)
	}

	dir := out[cfbSectorSize*(dirSect+1):]
	putDirEntry(dir[0:128], "Root Entry", 5, 1, cfbEndOfChain, 0)
	putDirEntry(dir[128:256], "Workbook", 2, cfbNoStream, uint32(first), uint32(nStream*cfbSectorSize))

	copy(out[cfbSectorSize*(first+1):], stream)
	return out, nil
}

func putDirEntry(b []byte, name string, kind byte, child, start, size uint32) {
	le := binary.LittleEndian
	units := utf16.Encode([]rune(name))
	for i, u := range units {
		le.PutUint16(b[2*i:], u)
	}
	le.PutUint16(b[64:], uint16(2*(len(units)+1)))
	b[66] = kind
	b[67] = 1 // black
	le.PutUint32(b[68:], cfbNoStream)
	le.PutUint32(b[72:], cfbNoStream)
	le.PutUint32(b[76:], child)
	le.PutUint32(b[116:], start)
	le.PutUint32(b[120:], size)
}

// parseBIFF reads every sheet of a compound file holding a BIFF workbook.
// The reader panics on malformed records, so panics become errors here.
func parseBIFF(container []byte) (sheets []sheetRows, err error) {
	defer func() {
		if r := recover(); r != nil {
			sheets, err = nil, fmt.Errorf("parsing workbook records: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(container), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	if wb == nil {
		return nil, errors.New("no workbook stream in compound file")
	}

	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		sheets = append(sheets, sheetRows{name: ws.Name, rows: xlsRows(ws)})
	}
	return sheets, nil
}

func xlsRows(ws *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		rows = append(rows, xlsRow(ws, i))
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}

// xlsRow returns the cells of row i with trailing blanks trimmed. Row panics
// for a row number that has no records, which reads as an empty row.
func xlsRow(ws *xls.WorkSheet, i int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()

	row := ws.Row(i)
	width := row.LastCol()
	if width <= 0 || width > maxXLSColumns {
		width = maxXLSColumns
	}

	cells = make([]string, width)
	last := -1
	for c := 0; c < width; c++ {
		v := row.Col(c)
		if v == xlsFormulaMarker {
			v = ""
		}
		cells[c] = v
		if strings.TrimSpace(v) != "" {
			last = c
		}
	}
	return cells[:last+1]
}
