package models

import "time"

type CarnetRequestCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type RoleCounts struct {
	Student    int `json:"student"`
	Instructor int `json:"instructor"`
	Admin      int `json:"admin"`
}

// StatsSnapshot is the derived dashboard aggregate. The zero value is the all-zero default.
type StatsSnapshot struct {
	TotalUsers     int                 `json:"totalUsers"`
	TotalCourses   int                 `json:"totalCourses"`
	CarnetRequests CarnetRequestCounts `json:"carnetRequests"`
	RolesCount     RoleCounts          `json:"rolesCount"`
	TotalSections  int                 `json:"totalSections"`
}

// CachedSnapshot is a snapshot together with the time its collections were fetched.
type CachedSnapshot struct {
	Snapshot  StatsSnapshot `json:"snapshot"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// StatsResponse is served by GET /dashboard/stats.
// Stale is set when the fetch failed and a previous or zero snapshot is returned instead.
type StatsResponse struct {
	StatsSnapshot
	Stale       bool      `json:"stale"`
	Loading     bool      `json:"loading"`
	GeneratedAt time.Time `json:"generatedAt"`
}
