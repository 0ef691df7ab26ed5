package admin

import (
	"context"
	"errors"
	"time"
)

// ErrNotPlatformAdmin is returned when a non-admin calls an admin-only
// operation.
var ErrNotPlatformAdmin = errors.New("platform admin access required")

// Stats is a snapshot of platform-wide usage.
type Stats struct {
	Users       int64      `json:"users"`
	Workspaces  int64      `json:"workspaces"`
	Collections int64      `json:"collections"`
	Requests    int64      `json:"requests"`
	Signups     []DayCount `json:"signups"`
}

// DayCount is a per-day count for time-series charts.
type DayCount struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

// StatsRepository aggregates platform usage from the store.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountWorkspaces(ctx context.Context) (int64, error)
	CountCollections(ctx context.Context) (int64, error)
	CountRequests(ctx context.Context) (int64, error)

	// SignupsByDay returns daily signup counts for the last n days.
	SignupsByDay(ctx context.Context, days int) ([]DayCount, error)
}
