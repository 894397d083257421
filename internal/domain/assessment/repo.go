package assessment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ProfileRepository stores reusable input profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *InputProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*InputProfile, error)
	Update(ctx context.Context, p *InputProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*InputProfile, int, error)
}

// AssessmentRepository stores completed evaluation runs.
type AssessmentRepository interface {
	Create(ctx context.Context, a *Assessment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Assessment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Assessment, int, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*Assessment, int, error)
}
