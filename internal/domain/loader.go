package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RowFields is the minimum number of fields in an observation row:
// date, precipitation, temp_max, temp_min, humidity, wind.
const RowFields = 6

// MeasurementFields names the five measurement columns in file order.
var MeasurementFields = [5]string{"precipitation", "temp_max", "temp_min", "humidity", "wind"}

// ParseRow converts one raw row into a Record. Fields past the sixth are
// ignored. A row either parses completely or not at all.
func ParseRow(row []string) (Record, error) {
	if len(row) < RowFields {
		return Record{}, fmt.Errorf("%w: got %d, want %d", ErrShortRow, len(row), RowFields)
	}

	date, err := ParseDate(row[0])
	if err != nil {
		return Record{}, err
	}

	m, err := ParseMeasurements([5]string(row[1:RowFields]))
	if err != nil {
		return Record{}, err
	}

	return Record{Date: date, Measurements: m}, nil
}

// ParseRows converts raw rows into Records, preserving order and silently
// dropping every row ParseRow rejects.
func ParseRows(rows [][]string) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := ParseRow(row)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// ParseMeasurements parses the five measurement values in file order.
// Nothing is returned unless all five parse.
func ParseMeasurements(fields [5]string) (Measurements, error) {
	var vals [5]float64
	for i, f := range fields {
		v, err := parseFloat(f)
		if err != nil {
			return Measurements{}, fmt.Errorf("%w: %s=%q", ErrInvalidMeasurement, MeasurementFields[i], f)
		}
		vals[i] = v
	}
	return Measurements{
		Precipitation: vals[0],
		TempMax:       vals[1],
		TempMin:       vals[2],
		Humidity:      vals[3],
		Wind:          vals[4],
	}, nil
}

var errNotDecimal = errors.New("not a finite decimal number")

// parseFloat accepts plain decimal notation only: hex literals, NaN and
// infinities are rejected.
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, errNotDecimal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotDecimal
	}
	return v, nil
}
