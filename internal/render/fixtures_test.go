package render

import (
	"database/sql"
	"time"

	"github.com/verte-zerg/flightdash/internal/model"
)

func testFlight(date, airline, origin string, status model.Status, dep float64) model.FlightRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	f := model.FlightRecord{
		FlightDate:      d,
		Airline:         airline,
		Origin:          origin,
		Destination:     "LAX",
		OriginCity:      "City",
		DestinationCity: "Los Angeles, CA",
		Status:          status,
		DeparturePeriod: "Morning",
	}
	if status == model.StatusCancelled {
		f.Cancelled = true
		return f
	}
	f.DepartureDelay = sql.NullFloat64{Float64: dep, Valid: true}
	f.ArrivalDelay = sql.NullFloat64{Float64: dep / 2, Valid: true}
	return f
}

func testFlights() []model.FlightRecord {
	return []model.FlightRecord{
		testFlight("2020-01-03", "Delta", "ATL", model.StatusOnTime, 2),
		testFlight("2020-01-09", "Delta", "ATL", model.StatusDelayed, 40),
		testFlight("2020-02-11", "United", "ORD", model.StatusCancelled, 0),
		testFlight("2020-02-12", "United", "ORD", model.StatusOnTime, -5),
		testFlight("2021-03-01", "Delta", "JFK", model.StatusOnTime, 0),
	}
}
