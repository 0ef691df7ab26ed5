// Copyright 2026 The PostBoy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postgres

import (
	"context"
	"fmt"

	"github.com/postboy/postboy/internal/admin"
)

// StatsRepository implements admin.StatsRepository
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := r.db.pool.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// CountUsers returns the total number of user accounts
func (r *StatsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, "users")
}

// CountWorkspaces returns the total number of workspaces
func (r *StatsRepository) CountWorkspaces(ctx context.Context) (int64, error) {
	return r.count(ctx, "workspaces")
}

// CountCollections returns the total number of collections
func (r *StatsRepository) CountCollections(ctx context.Context) (int64, error) {
	return r.count(ctx, "collections")
}

// CountRequests returns the total number of saved requests
func (r *StatsRepository) CountRequests(ctx context.Context) (int64, error) {
	return r.count(ctx, "requests")
}

// SignupsByDay returns daily signup counts for the last n days. Days
// with no signups are omitted.
func (r *StatsRepository) SignupsByDay(ctx context.Context, days int) ([]admin.DayCount, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT date_trunc('day', created_at) AS day, count(*)
		FROM users
		WHERE created_at >= now() - ($1 || ' days')::interval
		GROUP BY day ORDER BY day
	`, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query signups: %w", err)
	}
	defer rows.Close()

	var counts []admin.DayCount
	for rows.Next() {
		var dc admin.DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan signup count: %w", err)
		}
		counts = append(counts, dc)
	}
	return counts, rows.Err()
}
