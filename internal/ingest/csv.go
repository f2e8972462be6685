package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jengzang/motion-profile-go/internal/models"
)

// ReadCSV reads logger records from r. The result is sorted by timestamp.
// Rejected records are counted, not returned; a malformed coordinate aborts
// the read with an error wrapping ErrMalformedCoordinate.
func ReadCSV(r io.Reader) ([]models.Fix, ParseStats, error) {
	var stats ParseStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, stats, nil
	}
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, stats, err
	}

	var fixes []models.Fix
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				stats.Records++
				stats.Rejected++
				continue
			}
			return nil, stats, fmt.Errorf("failed to read line %d: %w", line, err)
		}
		stats.Records++

		rec := RawRecord{
			Date:      field(row, idx[ColumnDate]),
			Time:      field(row, idx[ColumnTime]),
			Latitude:  field(row, idx[ColumnLatitude]),
			Longitude: field(row, idx[ColumnLongitude]),
			Speed:     field(row, idx[ColumnSpeed]),
		}

		parsed, err := ParseRecord(rec)
		if err != nil {
			return nil, stats, fmt.Errorf("line %d: %w", line, err)
		}
		if !parsed.Accepted {
			stats.Rejected++
			continue
		}
		if parsed.BadSpeed {
			stats.BadSpeed++
		}

		fixes = append(fixes, parsed.Fix)
		stats.Accepted++
	}

	sort.SliceStable(fixes, func(i, j int) bool {
		return fixes[i].Timestamp.Before(fixes[j].Timestamp)
	})

	return fixes, stats, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		idx[strings.ToUpper(name)] = i
	}

	for _, required := range []string{ColumnDate, ColumnTime, ColumnLatitude, ColumnLongitude, ColumnSpeed} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	return idx, nil
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
