package main

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/couchcryptid/weather-history/internal/adapter/csvfile"
	"github.com/couchcryptid/weather-history/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := generate(rand.New(rand.NewPCG(7, 7)), 2010, 2011)
	b := generate(rand.New(rand.NewPCG(7, 7)), 2010, 2011)

	require.Len(t, a, 365+365)
	assert.Equal(t, a, b)
	assert.Equal(t, domain.Date{Year: 2010, Month: 1, Day: 1}, a[0].Date)
	assert.Equal(t, domain.Date{Year: 2011, Month: 12, Day: 31}, a[len(a)-1].Date)
}

func TestWrite_InjectsRowsTheLoaderSkips(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	records := generate(r, 2012, 2012)

	var buf bytes.Buffer
	require.NoError(t, write(&buf, r, records, 10, 0))

	loaded, stats, err := csvfile.Load(&buf)
	require.NoError(t, err)
	assert.Len(t, loaded, 366)
	assert.Equal(t, 10, stats.Skipped+stats.Broken)
}
