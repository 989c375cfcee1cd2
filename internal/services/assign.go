package services

import (
	"cmp"
	"crew-route-service/internal/domain"
	"slices"
	"strings"
)

// Unassigned reasons surfaced to dispatchers.
const (
	ReasonAllTeamsAtCapacity = "All teams at capacity"
	ReasonNoTeamsAvailable   = "No teams available"
	reasonNotGeocodedPrefix  = "Address could not be geocoded: "
)

// Assignment maps team ids to the job ids they received, in the order they
// were assigned. Teams that received nothing are absent.
type Assignment struct {
	ByTeam     map[string][]string
	Unassigned []domain.UnassignedJob
}

type teamSlot struct {
	team      domain.Team
	remaining int
	tail      string
}

// AssignJobs distributes jobs across teams greedily. Each job goes to the
// team whose current tail (home, then last assigned job) is nearest, among
// teams with capacity left. Jobs already assigned to a known team with
// capacity stay with that team. Ties go to the team listed first.
//
// Jobs are considered pre-assigned first, then by descending latitude, so
// the result is deterministic for a given input order.
func AssignJobs(jobs []domain.Job, teams []domain.Team, matrix *domain.DistanceMatrix) Assignment {
	out := Assignment{
		ByTeam:     make(map[string][]string, len(teams)),
		Unassigned: []domain.UnassignedJob{},
	}

	slots := make([]*teamSlot, 0, len(teams))
	byID := make(map[string]*teamSlot, len(teams))
	for _, t := range teams {
		s := &teamSlot{team: t, remaining: t.Capacity(), tail: domain.TeamHomeID(t.ID)}
		slots = append(slots, s)
		byID[t.ID] = s
	}

	ordered := slices.Clone(jobs)
	slices.SortStableFunc(ordered, compareForAssignment)

	for _, job := range ordered {
		site := domain.JobSiteID(job.ID)
		if !matrix.Has(site) {
			out.Unassigned = append(out.Unassigned, domain.UnassignedJob{
				JobID:   job.ID,
				Address: job.Address,
				Reason:  notGeocodedReason(job.Address),
			})
			continue
		}

		var chosen *teamSlot
		if pre, ok := byID[job.AssignedTeamID]; ok && pre.remaining > 0 {
			chosen = pre
		} else {
			best := 0
			for _, s := range slots {
				if s.remaining <= 0 {
					continue
				}
				d := matrix.Between(s.tail, site)
				if chosen == nil || d < best {
					chosen, best = s, d
				}
			}
		}

		if chosen == nil {
			out.Unassigned = append(out.Unassigned, domain.UnassignedJob{
				JobID:   job.ID,
				Address: job.Address,
				Reason:  ReasonAllTeamsAtCapacity,
			})
			continue
		}

		out.ByTeam[chosen.team.ID] = append(out.ByTeam[chosen.team.ID], job.ID)
		chosen.remaining--
		chosen.tail = site
	}

	return out
}

func notGeocodedReason(address string) string {
	return reasonNotGeocodedPrefix + strings.TrimSpace(address)
}

// Pre-assigned first, then north to south. Jobs without coordinates sort last.
func compareForAssignment(a, b domain.Job) int {
	pa, pb := a.AssignedTeamID != "", b.AssignedTeamID != ""
	if pa != pb {
		if pa {
			return -1
		}
		return 1
	}

	ca, cb := a.Coordinates != nil && a.Coordinates.Valid(), b.Coordinates != nil && b.Coordinates.Valid()
	switch {
	case ca && cb:
		return cmp.Compare(b.Coordinates.Lat, a.Coordinates.Lat)
	case ca:
		return -1
	case cb:
		return 1
	}
	return 0
}

// noTeamsUnassigned marks every job unassigned when no team can be routed.
func noTeamsUnassigned(jobs []domain.Job) []domain.UnassignedJob {
	out := make([]domain.UnassignedJob, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, domain.UnassignedJob{JobID: j.ID, Address: j.Address, Reason: ReasonNoTeamsAvailable})
	}
	return out
}
