package dto

type OptimizeRequest struct {
	Date               string   `json:"date"`
	TenantID           string   `json:"tenant_id"`
	StartTime          string   `json:"start_time"`
	MaxDriveMinutes    int      `json:"max_drive_minutes"`
	DailyTargetRevenue *float64 `json:"daily_target_revenue"`
}
