package dto

type BanUserRequest struct {
	Reason string `json:"reason"`
}

type UpdateRolesRequest struct {
	Roles []string `json:"roles"`
}

type OverviewResponse struct {
	Users          int64 `json:"users"`
	BannedUsers    int64 `json:"banned_users"`
	ActiveTrips    int64 `json:"active_trips"`
	OpenRequests   int64 `json:"open_requests"`
	PendingReports int64 `json:"pending_reports"`
}
