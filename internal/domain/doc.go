// Package domain models daily weather observations and the queries run over
// them.
//
// # Data Source
//
// Observations arrive as delimited text, one day per row, no header:
//
//	dd/mm/yyyy,precipitation,temp_max,temp_min,humidity,wind
//	15/01/2010,3.20,31.40,12.50,81.00,2.10
//
// Dates must be zero-padded. The five measurements are decimal numbers with
// no physical bounds. Fields past the sixth are ignored. A row that is short,
// has a malformed date, or has any non-numeric measurement is dropped as a
// whole by [ParseRows]; callers only see a shorter result.
//
// # Store
//
// [Store] keeps records in load order. Dates are expected, not required, to be
// unique:
//
//	Delete  removes every record with the date.
//	Correct rewrites the measurements of the first record with the date.
//
// # Aggregates
//
// [WettestMonth] groups precipitation by (year, month). Ties go to the key
// that occurs first in the record order.
//
// [AnnualAvgTempMin] averages TempMin for one calendar month across the fixed
// years 2006 through 2016. The result always holds 11 entries keyed
// "<month-name><year>" with Portuguese month names ("janeiro2010",
// "março2012"); a year without records is kept with a nil value.
package domain
