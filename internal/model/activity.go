package model

import "time"

// ActivityKind names an event on the admin live feed.
type ActivityKind string

const (
	ActivityRegistration ActivityKind = "registration"
	ActivityPayment      ActivityKind = "payment"
	ActivityGrievance    ActivityKind = "grievance"
	ActivityContact      ActivityKind = "contact"
	ActivityAnalytics    ActivityKind = "analytics"
)

// ActivityEvent is published on the Redis activity channel.
type ActivityEvent struct {
	Kind    ActivityKind      `json:"kind"`
	Summary string            `json:"summary"`
	Ref     string            `json:"ref,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	At      time.Time         `json:"at"`
}

// AnalyticsEvent is a page interaction reported by the public site.
type AnalyticsEvent struct {
	Event string `json:"event" binding:"required,max=64,excludesall=:"`
	Page  string `json:"page" binding:"max=256"`
	Label string `json:"label" binding:"max=128"`
}

// AnalyticsDay holds the event counters for one day.
type AnalyticsDay struct {
	Date   string           `json:"date"`
	Counts map[string]int64 `json:"counts"`
}
