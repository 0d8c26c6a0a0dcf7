// Package extract turns uploaded tabular files into the loose row maps the
// pipeline consumes. The adapter is deliberately replaceable: the engine only
// ever sees []domain.ExtractedRow.
package extract

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/stocksync/stocksync/internal/domain"
)

// ErrUnsupportedFormat is returned when an uploaded file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Adapter produces extracted rows from an uploaded document.
type Adapter interface {
	Extract(fileName string, payload []byte) ([]domain.ExtractedRow, error)
}

// FileAdapter parses CSV and XLSX uploads.
type FileAdapter struct{}

// NewFileAdapter returns the standard file-based extraction adapter.
func NewFileAdapter() *FileAdapter {
	return &FileAdapter{}
}

// Extract parses the payload based on the file extension. Row numbers are
// 1-based positions in the source file, so error messages line up with what
// the uploader sees in their spreadsheet.
func (a *FileAdapter) Extract(fileName string, payload []byte) ([]domain.ExtractedRow, error) {
	if len(payload) == 0 {
		return nil, errors.New("file is empty")
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv", ".txt":
		return parseCSV(payload)
	case ".xlsx":
		return parseExcel(payload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseCSV(payload []byte) ([]domain.ExtractedRow, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return buildRows(records)
}

func parseExcel(payload []byte) ([]domain.ExtractedRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	return buildRows(records)
}

// buildRows detects the first non-empty row as the header and maps every
// following non-empty row onto it.
func buildRows(records [][]string) ([]domain.ExtractedRow, error) {
	if len(records) == 0 {
		return nil, errors.New("no rows found in file")
	}

	var headers []string
	headerIndex := -1
	for idx, record := range records {
		if rowEmpty(record) {
			continue
		}
		headers = trimCells(record)
		headerIndex = idx
		break
	}
	if headerIndex == -1 {
		return nil, errors.New("header row could not be detected")
	}

	rows := []domain.ExtractedRow{}
	for idx := headerIndex + 1; idx < len(records); idx++ {
		record := records[idx]
		if rowEmpty(record) {
			continue
		}

		fields := make(map[string]string, len(headers))
		for col, header := range headers {
			if header == "" {
				continue
			}
			if col < len(record) {
				fields[header] = strings.TrimSpace(record[col])
			} else {
				fields[header] = ""
			}
		}

		rows = append(rows, domain.ExtractedRow{
			Number: idx + 1,
			Fields: fields,
		})
	}

	return rows, nil
}

func rowEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimCells(record []string) []string {
	trimmed := make([]string, len(record))
	for i, cell := range record {
		trimmed[i] = strings.TrimSpace(cell)
	}
	return trimmed
}
