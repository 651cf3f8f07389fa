package models

import "time"

// Activity is one admin action performed through the dashboard.
type Activity struct {
	Message   string         `json:"message"`
	Action    string         `json:"action"`
	Actor     string         `json:"actor"`
	Method    string         `json:"method,omitempty"`
	Path      string         `json:"path,omitempty"`
	Status    int            `json:"status,omitempty"`
	Object    map[string]any `json:"object,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// ActivityQueryParams filters GET /audit/activity.
type ActivityQueryParams struct {
	Action string `json:"action" validate:"omitempty,max=64"`
	Actor  string `json:"actor"  validate:"omitempty,max=254"`
	Limit  int    `json:"limit"  validate:"omitempty,gte=1,lte=100"`
}

// TimeSeriesPoint represents a data point in a time series chart.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ActivityDailyQueryParams filters GET /audit/activity/daily.
type ActivityDailyQueryParams struct {
	Action string `json:"action" validate:"omitempty,max=64"`
	Days   int    `json:"days"   validate:"omitempty,gte=1,lte=90"`
}
