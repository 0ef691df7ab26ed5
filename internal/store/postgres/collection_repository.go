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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/postboy/postboy/internal/collection"
)

// CollectionRepository implements collection.Repository
type CollectionRepository struct {
	db *DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// Create creates a new collection
func (r *CollectionRepository) Create(ctx context.Context, c *collection.Collection) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO collections (id, workspace_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.WorkspaceID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	return nil
}

// GetByID retrieves a collection by ID
func (r *CollectionRepository) GetByID(ctx context.Context, id string) (*collection.Collection, error) {
	var c collection.Collection
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, workspace_id, name, description, created_at, updated_at
		FROM collections WHERE id = $1
	`, id).Scan(&c.ID, &c.WorkspaceID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, collection.ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return &c, nil
}

// Update updates collection information
func (r *CollectionRepository) Update(ctx context.Context, c *collection.Collection) error {
	tag, err := r.db.pool.Exec(ctx, `
		UPDATE collections SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`, c.ID, c.Name, c.Description, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return collection.ErrCollectionNotFound
	}
	return nil
}

// Delete deletes a collection and its requests via ON DELETE CASCADE
func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return collection.ErrCollectionNotFound
	}
	return nil
}

// ListByWorkspace retrieves all collections in a workspace
func (r *CollectionRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*collection.Collection, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, workspace_id, name, description, created_at, updated_at
		FROM collections WHERE workspace_id = $1 ORDER BY created_at
	`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var collections []*collection.Collection
	for rows.Next() {
		var c collection.Collection
		if err := rows.Scan(&c.ID, &c.WorkspaceID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collections = append(collections, &c)
	}
	return collections, rows.Err()
}

// RequestRepository implements collection.RequestRepository. Headers
// are stored as a JSONB column.
type RequestRepository struct {
	db *DB
}

// NewRequestRepository creates a new saved-request repository
func NewRequestRepository(db *DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create creates a new saved request
func (r *RequestRepository) Create(ctx context.Context, req *collection.Request) error {
	headers, err := json.Marshal(req.Headers)
	if err != nil {
		return fmt.Errorf("failed to encode headers: %w", err)
	}
	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO requests (id, collection_id, workspace_id, name, method, url, headers, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, req.ID, req.CollectionID, req.WorkspaceID, req.Name, req.Method, req.URL, headers, req.Body, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	return nil
}

// GetByID retrieves a saved request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*collection.Request, error) {
	var req collection.Request
	var headers []byte
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, collection_id, workspace_id, name, method, url, headers, body, created_at, updated_at
		FROM requests WHERE id = $1
	`, id).Scan(&req.ID, &req.CollectionID, &req.WorkspaceID, &req.Name, &req.Method, &req.URL, &headers, &req.Body, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, collection.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &req.Headers); err != nil {
			return nil, fmt.Errorf("failed to decode headers: %w", err)
		}
	}
	return &req, nil
}

// Update updates a saved request
func (r *RequestRepository) Update(ctx context.Context, req *collection.Request) error {
	headers, err := json.Marshal(req.Headers)
	if err != nil {
		return fmt.Errorf("failed to encode headers: %w", err)
	}
	tag, err := r.db.pool.Exec(ctx, `
		UPDATE requests SET name = $2, method = $3, url = $4, headers = $5, body = $6, updated_at = $7
		WHERE id = $1
	`, req.ID, req.Name, req.Method, req.URL, headers, req.Body, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return collection.ErrRequestNotFound
	}
	return nil
}

// Delete deletes a saved request
func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return collection.ErrRequestNotFound
	}
	return nil
}

// ListByCollection retrieves all saved requests in a collection
func (r *RequestRepository) ListByCollection(ctx context.Context, collectionID string) ([]*collection.Request, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, collection_id, workspace_id, name, method, url, headers, body, created_at, updated_at
		FROM requests WHERE collection_id = $1 ORDER BY created_at
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []*collection.Request
	for rows.Next() {
		var req collection.Request
		var headers []byte
		if err := rows.Scan(&req.ID, &req.CollectionID, &req.WorkspaceID, &req.Name, &req.Method, &req.URL, &headers, &req.Body, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		if len(headers) > 0 {
			if err := json.Unmarshal(headers, &req.Headers); err != nil {
				return nil, fmt.Errorf("failed to decode headers: %w", err)
			}
		}
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}
