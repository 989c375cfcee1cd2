package services

import (
	"crew-route-service/internal/domain"
	"fmt"
)

// ArrivalWindowMinutes is the customer-facing arrival window length.
const ArrivalWindowMinutes = 30

// CalculateETAs walks an ordered list of job ids from the start location,
// accumulating drive and on-site time from startTime (HH:MM). A job missing
// from jobsByID is an error; it means the caller lost track of its input.
func CalculateETAs(
	orderedJobIDs []string,
	start string,
	startTime string,
	jobsByID map[string]domain.Job,
	m *domain.DistanceMatrix,
) ([]domain.OptimizedStop, error) {
	clock, err := domain.ParseClock(startTime)
	if err != nil {
		return nil, err
	}

	stops := make([]domain.OptimizedStop, 0, len(orderedJobIDs))
	prev := start
	for i, id := range orderedJobIDs {
		job, ok := jobsByID[id]
		if !ok {
			return nil, fmt.Errorf("calculate etas: unknown job %q", id)
		}

		site := domain.JobSiteID(id)
		drive := m.Between(prev, site)
		arrival := clock + drive
		onSite := job.DurationMinutes()
		departure := arrival + onSite

		stops = append(stops, domain.OptimizedStop{
			JobID:              id,
			Order:              i + 1,
			ArrivalMinute:      arrival,
			DepartureMinute:    departure,
			ArrivalTime:        domain.FormatClock(arrival),
			DepartureTime:      domain.FormatClock(departure),
			ArrivalWindowStart: domain.FormatClock(arrival),
			ArrivalWindowEnd:   domain.FormatClock(arrival + ArrivalWindowMinutes),
			DriveMinutes:       drive,
			JobMinutes:         onSite,
			Address:            job.Address,
			CustomerName:       job.CustomerName,
			CustomerPhone:      job.CustomerPhone,
			Price:              job.Price,
		})

		clock = departure
		prev = site
	}
	return stops, nil
}

// BuildRoute totals a team's scheduled stops.
func BuildRoute(team domain.Team, startTime string, stops []domain.OptimizedStop) domain.OptimizedRoute {
	r := domain.OptimizedRoute{
		TeamID:         team.ID,
		TeamName:       team.DisplayName(),
		Stops:          stops,
		FirstDeparture: startTime,
		LastCompletion: startTime,
	}
	if team.Lead != nil {
		r.LeadName = team.Lead.Name
		r.NotificationChannelID = team.Lead.NotificationChannelID
	}
	for _, s := range stops {
		r.TotalDriveMinutes += s.DriveMinutes
		r.TotalJobMinutes += s.JobMinutes
		r.EstimatedRevenue += s.Price
	}
	if n := len(stops); n > 0 {
		r.LastCompletion = stops[n-1].DepartureTime
	}
	return r
}
