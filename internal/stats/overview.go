package stats

import "github.com/verte-zerg/flightdash/internal/model"

// DefaultDelayThreshold is the departure delay in minutes above which a
// flight counts as delayed in the overview.
const DefaultDelayThreshold = 15.0

// KPIs are the headline numbers of the overview page.
type KPIs struct {
	Total        int
	Delayed      int
	Cancelled    int
	OnTime       int
	DelayedPct   float64
	CancelledPct float64
}

// Overview computes the headline KPIs. A flight is delayed when it was not
// cancelled and left more than threshold minutes late; everything neither
// delayed nor cancelled is on time.
func Overview(flights []model.FlightRecord, threshold float64) KPIs {
	var k KPIs
	for _, f := range flights {
		k.Total++
		switch {
		case f.Status == model.StatusCancelled:
			k.Cancelled++
		case f.DepartureDelay.Valid && f.DepartureDelay.Float64 > threshold:
			k.Delayed++
		}
	}
	k.OnTime = k.Total - k.Delayed - k.Cancelled
	if k.Total > 0 {
		k.DelayedPct = float64(k.Delayed) / float64(k.Total) * 100
		k.CancelledPct = float64(k.Cancelled) / float64(k.Total) * 100
	}
	return k
}
