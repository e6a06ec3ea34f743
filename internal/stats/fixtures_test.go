package stats

import (
	"database/sql"
	"time"

	"github.com/verte-zerg/flightdash/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func minutes(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

type flightOpt func(*model.FlightRecord)

func flight(date, airline string, opts ...flightOpt) model.FlightRecord {
	f := model.FlightRecord{
		FlightDate:      day(date),
		Airline:         airline,
		Origin:          "JFK",
		Destination:     "LAX",
		OriginCity:      "New York, NY",
		DestinationCity: "Los Angeles, CA",
		Status:          model.StatusOnTime,
		DeparturePeriod: "Morning",
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func cancelled() flightOpt {
	return func(f *model.FlightRecord) {
		f.Cancelled = true
		f.Status = model.StatusCancelled
		f.ArrivalDelay = sql.NullFloat64{}
	}
}

func delays(dep, arr float64) flightOpt {
	return func(f *model.FlightRecord) {
		f.DepartureDelay = minutes(dep)
		f.ArrivalDelay = minutes(arr)
		if dep > 15 {
			f.Status = model.StatusDelayed
		}
	}
}

func depDelay(dep float64) flightOpt {
	return func(f *model.FlightRecord) {
		f.DepartureDelay = minutes(dep)
	}
}

func route(origin, dest string) flightOpt {
	return func(f *model.FlightRecord) {
		f.Origin = origin
		f.Destination = dest
	}
}

func cities(origin, dest string) flightOpt {
	return func(f *model.FlightRecord) {
		f.OriginCity = origin
		f.DestinationCity = dest
	}
}

func period(p string) flightOpt {
	return func(f *model.FlightRecord) {
		f.DeparturePeriod = p
	}
}

// sampleFlights spans three years, three airlines and four airports.
func sampleFlights() []model.FlightRecord {
	return []model.FlightRecord{
		flight("2019-01-05", "Delta", delays(5, 2), route("ATL", "JFK"), cities("Atlanta, GA", "New York, NY")),
		flight("2019-01-20", "Delta", delays(40, 35), route("ATL", "LAX"), cities("Atlanta, GA", "Los Angeles, CA"), period("Evening")),
		flight("2019-02-11", "United", cancelled(), route("ORD", "JFK"), cities("Chicago, IL", "New York, NY")),
		flight("2020-03-01", "United", delays(-3, -8), route("ORD", "LAX"), cities("Chicago, IL", "Los Angeles, CA")),
		flight("2020-07-14", "American", delays(20, 25), route("JFK", "ORD"), period("Night")),
		flight("2021-12-31", "American", cancelled(), depDelay(60), route("JFK", "ATL"), cities("New York, NY", "Atlanta, GA")),
		flight("2021-12-31", "Delta", delays(0, 0), route("LAX", "ATL"), cities("Los Angeles, CA", "Atlanta, GA"), period("Afternoon")),
	}
}
