package domain

import "errors"

var (
	// ErrShortRow is returned for input rows with fewer than RowFields fields.
	ErrShortRow = errors.New("row has too few fields")

	// ErrInvalidDate is returned for dates not in zero-padded dd/mm/yyyy form.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidMeasurement is returned when a measurement is not a number.
	ErrInvalidMeasurement = errors.New("invalid measurement")

	// ErrUnencodable marks a record that cannot be serialized for publishing.
	// Retrying it cannot succeed.
	ErrUnencodable = errors.New("record cannot be encoded")

	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidYear      = errors.New("invalid year")
	ErrInvalidYearMonth = errors.New("invalid year-month")
)
