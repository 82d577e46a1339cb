package config

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kartikeysingh210/Captain-veggie/game/engine"
)

const fieldSizeLabel = "field size"

// ParseCSV reads a veggie layout in the classic format:
//
//	Field Size,10,10
//	Vegetable,Symbol,Points
//	Carrot,c,5
//	...
//
// Lines before the field size line are ignored. The line right after it is a
// header and is skipped.
func ParseCSV(data []byte) (*engine.GameConfig, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	config := &engine.GameConfig{}
	foundSize := false
	skippedHeader := false
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: error reading CSV: %v", ErrInvalidConfig, err)
		}
		line++

		if !foundSize {
			if len(record) == 0 || strings.ToLower(strings.TrimSpace(record[0])) != fieldSizeLabel {
				continue
			}
			if len(record) != 3 {
				return nil, fmt.Errorf("%w: line %d: field size needs rows and cols", ErrInvalidConfig, line)
			}
			rows, err := strconv.Atoi(strings.TrimSpace(record[1]))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad row count %q", ErrInvalidConfig, line, record[1])
			}
			cols, err := strconv.Atoi(strings.TrimSpace(record[2]))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad column count %q", ErrInvalidConfig, line, record[2])
			}
			config.Rows, config.Cols = rows, cols
			foundSize = true
			continue
		}

		if !skippedHeader {
			skippedHeader = true
			continue
		}

		if isBlank(record) {
			continue
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("%w: line %d: expected name,symbol,points", ErrInvalidConfig, line)
		}
		points, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad points %q", ErrInvalidConfig, line, record[2])
		}
		config.Veggies = append(config.Veggies, engine.Veggie{
			Name:   strings.TrimSpace(record[0]),
			Symbol: strings.TrimSpace(record[1]),
			Points: points,
		})
	}

	if !foundSize {
		return nil, fmt.Errorf("%w: missing field size line", ErrInvalidConfig)
	}
	return config, nil
}

// FormatCSV writes config back in the classic layout format
func FormatCSV(config *engine.GameConfig) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"Field Size", strconv.Itoa(config.Rows), strconv.Itoa(config.Cols)},
		{"Vegetable", "Symbol", "Points"},
	}
	for _, v := range config.Veggies {
		records = append(records, []string{v.Name, v.Symbol, strconv.Itoa(v.Points)})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
