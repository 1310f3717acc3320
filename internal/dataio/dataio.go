package dataio

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/coreflow/internal/flow"
)

var ErrFormat = errors.New("dataio: unsupported format")

// Document is the JSON form of a field: a [radius][angle][time] array and an
// optional time axis.
type Document struct {
	Time []float64     `json:"time,omitempty"`
	Data [][][]float64 `json:"data"`
}

// Load reads a field from path. JSON files hold a Document or a bare
// [radius][angle][time] array; .csv files hold a radius x time grid with
// commas; .txt, .dat and .tsv hold the same grid separated by whitespace.
func Load(path string) (*flow.Field, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		doc, err := LoadJSON(path)
		if err != nil {
			return nil, err
		}
		f, err := flow.New(doc.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(doc.Time) > 0 {
			if err := f.SetTime(doc.Time); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
		return f, nil
	case ".csv", ".txt", ".dat", ".tsv":
		grid, err := LoadGrid(path)
		if err != nil {
			return nil, err
		}
		f, err := flow.NewAxisymmetric(grid)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, path)
	}
}

// LoadGrid reads a radius x time grid, picking the delimiter from the
// extension: commas for .csv, whitespace for .txt, .dat and .tsv.
func LoadGrid(path string) ([][]float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadDelimited(path, ',')
	case ".txt", ".dat", ".tsv":
		return LoadDelimited(path, ' ')
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, path)
	}
}

// LoadDelimited reads a radius x time grid, one radius per line. A space
// comma splits on any run of whitespace. Lines starting with '#' are skipped.
func LoadDelimited(path string, comma rune) ([][]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadDelimited(file, comma)
}

// ReadDelimited is LoadDelimited over an open reader.
func ReadDelimited(r io.Reader, comma rune) ([][]float64, error) {
	whitespace := comma == ' ' || comma == '\t'

	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if whitespace {
		cr.Comma = ' '
	} else {
		cr.Comma = comma
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	grid := make([][]float64, 0, len(records))
	for i, record := range records {
		row := make([]float64, 0, len(record))
		for _, field := range record {
			for _, tok := range split(field, whitespace) {
				v, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", i+1, err)
				}
				row = append(row, v)
			}
		}
		if len(row) == 0 {
			continue
		}
		if len(grid) > 0 && len(row) != len(grid[0]) {
			return nil, &flow.ShapeError{Axis: "time", Index: i, Got: len(row), Expected: len(grid[0])}
		}
		grid = append(grid, row)
	}
	if len(grid) == 0 {
		return nil, flow.ErrEmptyAxis
	}
	return grid, nil
}

func split(field string, whitespace bool) []string {
	if whitespace {
		return strings.Fields(field)
	}
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	return []string{field}
}

// SaveDelimited writes a radius x time grid as comma separated values.
func SaveDelimited(path string, grid [][]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	for _, row := range grid {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return file.Close()
}

// LoadJSON reads a Document, accepting a bare array in place of the object.
func LoadJSON(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &doc.Data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &doc, nil
}

// SaveJSON writes a Document with indentation.
func SaveJSON(path string, doc *Document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return file.Close()
}
