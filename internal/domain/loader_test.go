package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRow(t *testing.T) {
	t.Run("valid row", func(t *testing.T) {
		rec, err := ParseRow([]string{"15/01/2010", "3.2", "31.4", "12.5", "81", "2.1"})
		require.NoError(t, err)
		assert.Equal(t, Date{2010, time.January, 15}, rec.Date)
		assert.Equal(t, Measurements{Precipitation: 3.2, TempMax: 31.4, TempMin: 12.5, Humidity: 81, Wind: 2.1}, rec.Measurements)
	})

	t.Run("extra fields ignored", func(t *testing.T) {
		rec, err := ParseRow([]string{"15/01/2010", "1", "2", "3", "4", "5", "station-7"})
		require.NoError(t, err)
		assert.Equal(t, 5.0, rec.Wind)
	})

	t.Run("negative and padded values", func(t *testing.T) {
		rec, err := ParseRow([]string{"01/07/2011", " 0.00", "-1.5 ", "-8.25", "100", "0"})
		require.NoError(t, err)
		assert.Equal(t, -1.5, rec.TempMax)
		assert.Equal(t, -8.25, rec.TempMin)
	})

	t.Run("short row", func(t *testing.T) {
		_, err := ParseRow([]string{"15/01/2010", "1", "2", "3", "4"})
		require.ErrorIs(t, err, ErrShortRow)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := ParseRow([]string{"2010-01-15", "1", "2", "3", "4", "5"})
		require.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("bad measurement", func(t *testing.T) {
		_, err := ParseRow([]string{"15/01/2010", "1", "2", "n/a", "4", "5"})
		require.ErrorIs(t, err, ErrInvalidMeasurement)
		assert.Contains(t, err.Error(), "temp_min")
	})

	t.Run("non-decimal measurements", func(t *testing.T) {
		for _, v := range []string{"nan", "NaN", "Inf", "-inf", "+Infinity", "0x1p4", "-0X10"} {
			_, err := ParseRow([]string{"15/01/2010", "1", "2", v, "4", "5"})
			require.ErrorIs(t, err, ErrInvalidMeasurement, v)
		}
	})

	t.Run("overflowing measurement", func(t *testing.T) {
		_, err := ParseRow([]string{"15/01/2010", "1e400", "2", "3", "4", "5"})
		require.ErrorIs(t, err, ErrInvalidMeasurement)
	})

	t.Run("empty measurement", func(t *testing.T) {
		_, err := ParseRow([]string{"15/01/2010", "", "2", "3", "4", "5"})
		require.ErrorIs(t, err, ErrInvalidMeasurement)
	})
}

func TestParseRows_SkipsMalformedRows(t *testing.T) {
	rows := [][]string{
		{"01/01/2010", "5.0", "30", "20", "80", "3"},
		{"header", "precip", "tmax", "tmin", "hum", "wind"},
		{"02/01/2010", "1.0", "29"},
		{"03/01/2010", "x", "29", "19", "70", "2"},
		{},
		{"04/01/2010", "0.5", "28", "18", "75", "4"},
		{"4/1/2010", "0.5", "28", "18", "75", "4"},
		{"15/01/2010", "NaN", "Inf", "0x1p4", "80", "2"},
	}

	records := ParseRows(rows)

	require.Len(t, records, 2)
	assert.LessOrEqual(t, len(records), len(rows))
	assert.Equal(t, Date{2010, time.January, 1}, records[0].Date)
	assert.Equal(t, Date{2010, time.January, 4}, records[1].Date)
}

func TestParseRows_Empty(t *testing.T) {
	assert.Empty(t, ParseRows(nil))
}

func TestParseMeasurements_AllOrNothing(t *testing.T) {
	m, err := ParseMeasurements([5]string{"1", "2", "3", "4", "oops"})
	require.ErrorIs(t, err, ErrInvalidMeasurement)
	assert.Zero(t, m)
	assert.Contains(t, err.Error(), "wind")
}
