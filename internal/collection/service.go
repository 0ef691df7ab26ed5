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

package collection

import (
	"context"
	"fmt"
	"time"

	"github.com/postboy/postboy/internal/authz"
	"github.com/postboy/postboy/internal/id"
)

// Service provides collection and request business logic. Every
// operation resolves the owning workspace and gates through the
// authorization evaluator.
type Service struct {
	collections Repository
	requests    RequestRepository
	evaluator   *authz.Evaluator
}

// NewService creates a new collection service
func NewService(collections Repository, requests RequestRepository, evaluator *authz.Evaluator) *Service {
	return &Service{
		collections: collections,
		requests:    requests,
		evaluator:   evaluator,
	}
}

// CreateCollection creates a collection in a workspace. Requires
// collection:create.
func (s *Service) CreateCollection(ctx context.Context, actorID, workspaceID, name, description string) (*Collection, error) {
	if err := s.evaluator.RequirePermission(authz.PermCollectionCreate)(ctx, actorID, workspaceID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	now := time.Now()
	c := &Collection{
		ID:          id.NewUUIDv7(),
		WorkspaceID: workspaceID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.collections.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return c, nil
}

// ListCollections lists a workspace's collections. Requires
// collection:view.
func (s *Service) ListCollections(ctx context.Context, actorID, workspaceID string) ([]*Collection, error) {
	if err := s.evaluator.RequirePermission(authz.PermCollectionView)(ctx, actorID, workspaceID); err != nil {
		return nil, err
	}
	return s.collections.ListByWorkspace(ctx, workspaceID)
}

// UpdateCollection renames or re-describes a collection. Requires
// collection:edit.
func (s *Service) UpdateCollection(ctx context.Context, actorID, collectionID string, name, description *string) (*Collection, error) {
	c, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if err := s.evaluator.RequirePermission(authz.PermCollectionEdit)(ctx, actorID, c.WorkspaceID); err != nil {
		return nil, err
	}

	if name != nil {
		c.Name = *name
	}
	if description != nil {
		c.Description = *description
	}
	c.UpdatedAt = time.Now()

	if err := s.collections.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}
	return c, nil
}

// DeleteCollection deletes a collection and its requests. Requires
// collection:delete.
func (s *Service) DeleteCollection(ctx context.Context, actorID, collectionID string) error {
	c, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return err
	}
	if err := s.evaluator.RequirePermission(authz.PermCollectionDelete)(ctx, actorID, c.WorkspaceID); err != nil {
		return err
	}
	return s.collections.Delete(ctx, collectionID)
}

// RequestParams holds the definition of a saved request.
type RequestParams struct {
	Name    string
	Method  string
	URL     string
	Headers map[string]string
	Body    string
}

// CreateRequest saves a request in a collection. Requires
// request:create.
func (s *Service) CreateRequest(ctx context.Context, actorID, collectionID string, params RequestParams) (*Request, error) {
	c, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if err := s.evaluator.RequirePermission(authz.PermRequestCreate)(ctx, actorID, c.WorkspaceID); err != nil {
		return nil, err
	}
	if params.Name == "" || params.URL == "" {
		return nil, fmt.Errorf("request name and url are required")
	}

	now := time.Now()
	r := &Request{
		ID:           id.NewUUIDv7(),
		CollectionID: collectionID,
		WorkspaceID:  c.WorkspaceID,
		Name:         params.Name,
		Method:       params.Method,
		URL:          params.URL,
		Headers:      params.Headers,
		Body:         params.Body,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return r, nil
}

// ListRequests lists the requests in a collection. Requires
// request:view.
func (s *Service) ListRequests(ctx context.Context, actorID, collectionID string) ([]*Request, error) {
	c, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if err := s.evaluator.RequirePermission(authz.PermRequestView)(ctx, actorID, c.WorkspaceID); err != nil {
		return nil, err
	}
	return s.requests.ListByCollection(ctx, collectionID)
}

// UpdateRequest updates a saved request. Requires request:edit.
func (s *Service) UpdateRequest(ctx context.Context, actorID, requestID string, params RequestParams) (*Request, error) {
	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.evaluator.RequirePermission(authz.PermRequestEdit)(ctx, actorID, r.WorkspaceID); err != nil {
		return nil, err
	}

	if params.Name != "" {
		r.Name = params.Name
	}
	if params.Method != "" {
		r.Method = params.Method
	}
	if params.URL != "" {
		r.URL = params.URL
	}
	if params.Headers != nil {
		r.Headers = params.Headers
	}
	if params.Body != "" {
		r.Body = params.Body
	}
	r.UpdatedAt = time.Now()

	if err := s.requests.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}
	return r, nil
}

// DeleteRequest deletes a saved request. Requires request:delete.
func (s *Service) DeleteRequest(ctx context.Context, actorID, requestID string) error {
	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := s.evaluator.RequirePermission(authz.PermRequestDelete)(ctx, actorID, r.WorkspaceID); err != nil {
		return err
	}
	return s.requests.Delete(ctx, requestID)
}
