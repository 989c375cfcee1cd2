package dto

import "crew-route-service/internal/domain"

type TeamResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	MaxJobsPerDay int                 `json:"max_jobs_per_day"`
	LeadName      string              `json:"lead_name,omitempty"`
	Home          *domain.Coordinates `json:"home,omitempty"`
	Members       []string            `json:"members"`
	Qualified     bool                `json:"qualified"`
	// Empty when Qualified.
	Reason string `json:"reason,omitempty"`
}

type ListTeamsResponse struct {
	Teams []TeamResponse `json:"teams"`
}
