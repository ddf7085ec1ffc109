// Package records implements the application repositories on top of a
// ports.RecordStore, mapping entities to flat rows.
package records

import (
	"encoding/json"
	"fmt"
	"time"

	"sol-backend/application/ports"
	"sol-backend/pkg/utils"
)

// toRecord flattens a row struct into a record using its json tags.
func toRecord(row interface{}) (ports.Record, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to encode row: %w", err)
	}
	var rec ports.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode row: %w", err)
	}
	return rec, nil
}

// fromRecord fills a row struct from a record.
func fromRecord(rec ports.Record, row interface{}) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := json.Unmarshal(data, row); err != nil {
		return fmt.Errorf("failed to decode record %s: %w", rec.ID(), err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return utils.FormatTimestamp(t)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := utils.FormatTimestamp(*t)
	return &s
}

// parseTime tolerates empty or malformed values, which come back as the zero time.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := utils.ParseTimestamp(s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func parseTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := parseTime(*s)
	if t.IsZero() {
		return nil
	}
	return &t
}
