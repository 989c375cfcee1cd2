package domain

// DefaultJobMinutes is used when a job has no duration estimate.
const DefaultJobMinutes = 120

// Represents a single field-service visit scheduled for a date.
// Coordinates may be absent until the engine resolves the address; the
// engine annotates them in memory only and never persists them.
type Job struct {
	ID             string       `json:"id"`
	Address        string       `json:"address"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	Date           string       `json:"date"`
	AssignedTeamID string       `json:"assigned_team_id,omitempty"`
	DurationHours  float64      `json:"duration_hours,omitempty"`
	Price          float64      `json:"price,omitempty"`
	CustomerName   string       `json:"customer_name,omitempty"`
	CustomerPhone  string       `json:"customer_phone,omitempty"`
}

// DurationMinutes converts the hour estimate, defaulting to two hours.
func (j Job) DurationMinutes() int {
	if j.DurationHours <= 0 {
		return DefaultJobMinutes
	}
	return int(j.DurationHours*60 + 0.5)
}
