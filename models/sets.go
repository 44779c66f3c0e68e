package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON-column collection types. Value/Scan follow the JSONB round-trip used
// for structured columns throughout the app.

func jsonValue(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func jsonScan(dst any, value any) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("failed to scan JSON column: unsupported type %T", value)
	}

	return json.Unmarshal(data, dst)
}

// WeekdaySet is the set of weekdays a recurring slot repeats on.
type WeekdaySet []DayOfWeek

func (s WeekdaySet) Value() (driver.Value, error) { return jsonValue(s) }
func (s *WeekdaySet) Scan(value any) error        { return jsonScan(s, value) }

func (s WeekdaySet) Contains(d DayOfWeek) bool {
	for _, v := range s {
		if v == d {
			return true
		}
	}
	return false
}

// DateSet holds calendar dates as "YYYY-MM-DD" strings. Insertion order is
// irrelevant; Add and Remove are idempotent.
type DateSet []string

func (s DateSet) Value() (driver.Value, error) { return jsonValue(s) }
func (s *DateSet) Scan(value any) error        { return jsonScan(s, value) }

func (s DateSet) Contains(date string) bool {
	for _, v := range s {
		if v == date {
			return true
		}
	}
	return false
}

func (s DateSet) Add(date string) DateSet {
	if s.Contains(date) {
		return s
	}
	return append(s, date)
}

func (s DateSet) Remove(date string) DateSet {
	out := s[:0]
	for _, v := range s {
		if v != date {
			out = append(out, v)
		}
	}
	return out
}

// IDSet holds references to other records, e.g. the service types bookable in
// a time slot.
type IDSet []uint

func (s IDSet) Value() (driver.Value, error) { return jsonValue(s) }
func (s *IDSet) Scan(value any) error        { return jsonScan(s, value) }

func (s IDSet) Contains(id uint) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}
