package domain

import "strings"

// CrewLead is the person who drives the team's route and receives dispatch.
type CrewLead struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	// NotificationChannelID identifies where the lead receives the route
	// (SMS number, chat id). Empty means the lead cannot be dispatched.
	NotificationChannelID string       `json:"notification_channel_id"`
	Home                  *Coordinates `json:"home,omitempty"`
}

type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Team is a field crew anchored to its lead's home for routing.
// Teams are loaded fresh per optimization run and never mutated by the engine.
type Team struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Lead          *CrewLead `json:"lead,omitempty"`
	MaxJobsPerDay int       `json:"max_jobs_per_day"`
	Members       []Member  `json:"members"`
}

// DefaultMaxJobsPerDay applies when a team record carries no capacity.
const DefaultMaxJobsPerDay = 6

// Capacity returns the number of jobs the team may take in one day.
func (t Team) Capacity() int {
	if t.MaxJobsPerDay <= 0 {
		return DefaultMaxJobsPerDay
	}
	return t.MaxJobsPerDay
}

// DisplayName falls back to the id so warnings stay readable.
func (t Team) DisplayName() string {
	if n := strings.TrimSpace(t.Name); n != "" {
		return n
	}
	return t.ID
}

// Disqualification explains why a team cannot be routed, or "" when it can.
func (t Team) Disqualification() string {
	switch {
	case t.Lead == nil || !t.Lead.Active || strings.TrimSpace(t.Lead.ID) == "":
		return "no active crew lead"
	case t.Lead.Home == nil || !t.Lead.Home.Valid():
		return "crew lead has no home coordinates"
	case strings.TrimSpace(t.Lead.NotificationChannelID) == "":
		return "crew lead has no notification channel"
	}
	return ""
}
