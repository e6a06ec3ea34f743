package dataset

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/flightdash/internal/model"
)

const header = "fl_date,airline,origin,dest,origin_city,dest_city,dep_delay,arr_delay,cancelled,flight_status,dep_time_Period\n"

func TestReadParsesRows(t *testing.T) {
	input := header +
		"2019-01-05,Delta Air Lines Inc.,ATL,LAX,\"Atlanta, GA\",\"Los Angeles, CA\",-3.0,4.0,0,On-Time,Morning\n" +
		"2020-07-14,United Air Lines Inc.,ORD,JFK,\"Chicago, IL\",\"New York, NY\",,,1,Cancelled,Evening\n" +
		"2021-12-31,American Airlines Inc.,JFK,ORD,\"New York, NY\",\"Chicago, IL\",45,NaN,0.0,Delayed,Night\n"

	flights, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, flights, 3)

	first := flights[0]
	assert.Equal(t, time.Date(2019, 1, 5, 0, 0, 0, 0, time.UTC), first.FlightDate)
	assert.Equal(t, "Delta Air Lines Inc.", first.Airline)
	assert.Equal(t, "Atlanta, GA", first.OriginCity)
	assert.Equal(t, "Los Angeles, CA", first.DestinationCity)
	assert.True(t, first.DepartureDelay.Valid)
	assert.InDelta(t, -3.0, first.DepartureDelay.Float64, 1e-9)
	assert.Equal(t, model.StatusOnTime, first.Status)
	assert.Equal(t, "Morning", first.DeparturePeriod)

	cancelled := flights[1]
	assert.True(t, cancelled.Cancelled)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.False(t, cancelled.DepartureDelay.Valid)
	assert.False(t, cancelled.ArrivalDelay.Valid)

	delayed := flights[2]
	assert.False(t, delayed.Cancelled)
	assert.InDelta(t, 45.0, delayed.DepartureDelay.Float64, 1e-9)
	assert.False(t, delayed.ArrivalDelay.Valid, "NaN is treated as missing")
}

func TestReadDropsArrivalDelayOnCancelledRows(t *testing.T) {
	input := header + "2020-01-01,Delta,ATL,LAX,A,B,12,30,1,Cancelled,Morning\n"
	flights, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.True(t, flights[0].DepartureDelay.Valid)
	assert.False(t, flights[0].ArrivalDelay.Valid)
}

func TestReadAcceptsAliasedHeaders(t *testing.T) {
	input := "\ufeffFlight Date,Airline,Origin,Destination,Origin City,Destination City,Departure Delay,Arrival Delay,Cancelled,Status,Departure Time Period,extra\n" +
		"1/15/2020,Delta,ATL,LAX,A,B,1,2,false,on-time,Morning,ignored\n"
	flights, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), flights[0].FlightDate)
	assert.Equal(t, "LAX", flights[0].Destination)
	assert.Equal(t, model.StatusOnTime, flights[0].Status)
}

func TestReadMissingColumns(t *testing.T) {
	_, err := Read(strings.NewReader("fl_date,airline\n2020-01-01,Delta\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "flight_status")
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadHeaderOnly(t *testing.T) {
	flights, err := Read(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestReadRowErrors(t *testing.T) {
	cases := []struct {
		name   string
		row    string
		column string
	}{
		{name: "bad date", row: "yesterday,Delta,ATL,LAX,A,B,1,2,0,On-Time,Morning", column: colDate},
		{name: "bad delay", row: "2020-01-01,Delta,ATL,LAX,A,B,late,2,0,Delayed,Morning", column: colDepDelay},
		{name: "bad flag", row: "2020-01-01,Delta,ATL,LAX,A,B,1,2,maybe,On-Time,Morning", column: colCancelled},
		{name: "unknown status", row: "2020-01-01,Delta,ATL,LAX,A,B,1,2,0,Diverted,Morning", column: colStatus},
		{name: "status mismatch", row: "2020-01-01,Delta,ATL,LAX,A,B,1,2,1,On-Time,Morning", column: colStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := header + "2020-01-01,Delta,ATL,LAX,A,B,1,2,0,On-Time,Morning\n" + tc.row + "\n"
			_, err := Read(strings.NewReader(input))
			require.Error(t, err)
			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, 3, rowErr.Line)
			assert.Equal(t, tc.column, rowErr.Column)
		})
	}
}

func TestStatusMismatchIsDetectable(t *testing.T) {
	input := header + "2020-01-01,Delta,ATL,LAX,A,B,,,0,Cancelled,Morning\n"
	_, err := Read(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrStatusMismatch)
}

func TestLoadPlainAndGzip(t *testing.T) {
	dir := t.TempDir()
	content := header + "2020-01-01,Delta,ATL,LAX,A,B,1,2,0,On-Time,Morning\n"

	plain := filepath.Join(dir, "flights.csv")
	require.NoError(t, os.WriteFile(plain, []byte(content), 0o644))
	flights, err := Load(plain)
	require.NoError(t, err)
	assert.Len(t, flights, 1)

	zipped := filepath.Join(dir, "flights.csv.gz")
	file, err := os.Create(zipped)
	require.NoError(t, err)
	gz := gzip.NewWriter(file)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, file.Close())

	flights, err = Load(zipped)
	require.NoError(t, err)
	assert.Len(t, flights, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
