package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{"zero padded", "05/01/2010", Date{2010, time.January, 5}, false},
		{"end of year", "31/12/2016", Date{2016, time.December, 31}, false},
		{"leap day", "29/02/2012", Date{2012, time.February, 29}, false},
		{"not a leap year", "29/02/2011", Date{}, true},
		{"unpadded day", "5/01/2010", Date{}, true},
		{"unpadded month", "05/1/2010", Date{}, true},
		{"iso format", "2010-01-05", Date{}, true},
		{"month out of range", "01/13/2010", Date{}, true},
		{"trailing text", "05/01/2010x", Date{}, true},
		{"empty", "", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDate_StringRoundTrip(t *testing.T) {
	d := Date{Year: 2009, Month: time.March, Day: 7}
	assert.Equal(t, "07/03/2009", d.String())

	parsed, err := ParseDate(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, parsed)
}

func TestDate_Compare(t *testing.T) {
	a := Date{2010, time.January, 31}
	b := Date{2010, time.February, 1}
	c := Date{2011, time.January, 1}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -1, b.Compare(c))
}

func TestRecord_JSON(t *testing.T) {
	rec := Record{
		Date:         Date{2010, time.January, 15},
		Measurements: Measurements{Precipitation: 3, TempMax: 30, TempMin: 12.5, Humidity: 80, Wind: 2},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"date":"15/01/2010","precipitation":3,"temp_max":30,"temp_min":12.5,"humidity":80,"wind":2}`,
		string(data))

	var back Record
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestYearMonth_LastDay(t *testing.T) {
	tests := []struct {
		ym   YearMonth
		want int
	}{
		{YearMonth{2010, time.January}, 31},
		{YearMonth{2010, time.April}, 30},
		{YearMonth{2011, time.February}, 28},
		{YearMonth{2012, time.February}, 29},
		{YearMonth{1900, time.February}, 28},
		{YearMonth{2000, time.February}, 29},
		{YearMonth{2016, time.December}, 31},
	}

	for _, tt := range tests {
		t.Run(tt.ym.String(), func(t *testing.T) {
			last := tt.ym.LastDay()
			assert.Equal(t, tt.want, last.Day)
			assert.Equal(t, tt.ym.Month, last.Month)
			assert.Equal(t, tt.ym.Year, last.Year)
		})
	}
}

func TestParseYearMonth(t *testing.T) {
	ym, err := ParseYearMonth("2010-03")
	require.NoError(t, err)
	assert.Equal(t, YearMonth{2010, time.March}, ym)

	ym, err = ParseYearMonth("03/2010")
	require.NoError(t, err)
	assert.Equal(t, YearMonth{2010, time.March}, ym)

	_, err = ParseYearMonth("2010-13")
	require.ErrorIs(t, err, ErrInvalidMonth)

	_, err = ParseYearMonth("1850-01")
	require.ErrorIs(t, err, ErrInvalidYear)

	_, err = ParseYearMonth("2101-01")
	require.ErrorIs(t, err, ErrInvalidYear)

	_, err = ParseYearMonth("march")
	require.ErrorIs(t, err, ErrInvalidYearMonth)
}
