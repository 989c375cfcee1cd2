package domain

// MatrixSource records how the run's drive times were produced.
const (
	MatrixSourceProvider          = "provider"
	MatrixSourceHaversine         = "haversine"
	MatrixSourceHaversineDegraded = "haversine-degraded"
)

// Represents one job visit within a team's ordered route.
// Clock values are minutes since local midnight; the string forms are HH:MM.
type OptimizedStop struct {
	JobID              string  `json:"job_id"`
	Order              int     `json:"order"`
	ArrivalMinute      int     `json:"arrival_minute"`
	DepartureMinute    int     `json:"departure_minute"`
	ArrivalTime        string  `json:"arrival_time"`
	DepartureTime      string  `json:"departure_time"`
	ArrivalWindowStart string  `json:"arrival_window_start"`
	ArrivalWindowEnd   string  `json:"arrival_window_end"`
	DriveMinutes       int     `json:"drive_minutes"`
	JobMinutes         int     `json:"job_minutes"`
	Address            string  `json:"address"`
	CustomerName       string  `json:"customer_name,omitempty"`
	CustomerPhone      string  `json:"customer_phone,omitempty"`
	Price              float64 `json:"price"`
}

// Represents the planned route for a single team.
// It is immutable planning data and contains no side effects.
type OptimizedRoute struct {
	TeamID                string          `json:"team_id"`
	TeamName              string          `json:"team_name"`
	LeadName              string          `json:"lead_name"`
	NotificationChannelID string          `json:"notification_channel_id"`
	Stops                 []OptimizedStop `json:"stops"`
	TotalDriveMinutes     int             `json:"total_drive_minutes"`
	TotalJobMinutes       int             `json:"total_job_minutes"`
	EstimatedRevenue      float64         `json:"estimated_revenue"`
	FirstDeparture        string          `json:"first_departure"`
	LastCompletion        string          `json:"last_completion"`
}

type UnassignedJob struct {
	JobID   string `json:"job_id"`
	Address string `json:"address"`
	Reason  string `json:"reason"`
}

type Summary struct {
	TotalJobs         int     `json:"total_jobs"`
	AssignedJobs      int     `json:"assigned_jobs"`
	UnassignedJobs    int     `json:"unassigned_jobs"`
	TeamsAvailable    int     `json:"teams_available"`
	TeamsUsed         int     `json:"teams_used"`
	TotalDriveMinutes int     `json:"total_drive_minutes"`
	TotalJobMinutes   int     `json:"total_job_minutes"`
	TotalRevenue      float64 `json:"total_revenue"`
	MatrixSource      string  `json:"matrix_source,omitempty"`
}

// OptimizationResult is the plain, serializable output of one run.
// Every input job appears in exactly one of Routes[*].Stops or Unassigned.
type OptimizationResult struct {
	RunID      string           `json:"run_id"`
	TenantID   string           `json:"tenant_id"`
	Date       string           `json:"date"`
	Routes     []OptimizedRoute `json:"routes"`
	Unassigned []UnassignedJob  `json:"unassigned_jobs"`
	Warnings   []string         `json:"warnings"`
	Summary    Summary          `json:"summary"`
}
