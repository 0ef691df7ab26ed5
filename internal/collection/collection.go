package collection

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrRequestNotFound    = errors.New("request not found")
)

// Collection groups saved API requests inside a workspace.
type Collection struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Request is a saved API request definition. Headers and body are
// stored as-is; execution happens in the client.
type Request struct {
	ID           string            `json:"id"`
	CollectionID string            `json:"collection_id"`
	WorkspaceID  string            `json:"workspace_id"`
	Name         string            `json:"name"`
	Method       string            `json:"method"`
	URL          string            `json:"url"`
	Headers      map[string]string `json:"headers,omitempty"`
	Body         string            `json:"body,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Repository defines the interface for collection persistence.
type Repository interface {
	Create(ctx context.Context, c *Collection) error
	GetByID(ctx context.Context, id string) (*Collection, error)
	Update(ctx context.Context, c *Collection) error
	Delete(ctx context.Context, id string) error
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*Collection, error)
}

// RequestRepository defines the interface for saved request persistence.
type RequestRepository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	Update(ctx context.Context, r *Request) error
	Delete(ctx context.Context, id string) error
	ListByCollection(ctx context.Context, collectionID string) ([]*Request, error)
}
