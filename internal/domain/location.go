package domain

import "strings"

const (
	teamHomePrefix = "team:"
	jobSitePrefix  = "job:"
)

// Location keys a row/column of the distance matrix.
// Coordinates are nil until resolved from Address.
type Location struct {
	ID          string
	Address     string
	Coordinates *Coordinates
}

// TeamHomeID and JobSiteID keep the two identifier namespaces apart so a
// team and a job sharing a raw id never collide in the matrix.
func TeamHomeID(teamID string) string { return teamHomePrefix + teamID }

func JobSiteID(jobID string) string { return jobSitePrefix + jobID }

func IsJobSite(locationID string) bool { return strings.HasPrefix(locationID, jobSitePrefix) }

// JobIDFromSite strips the job namespace; ok is false for any other id.
func JobIDFromSite(locationID string) (string, bool) {
	if !IsJobSite(locationID) {
		return "", false
	}
	return strings.TrimPrefix(locationID, jobSitePrefix), true
}
