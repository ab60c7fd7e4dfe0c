package application

import (
	"context"
	"time"
)

// Repository describes draft application storage needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (Application, bool, error)
	Upsert(ctx context.Context, app Application) error
	Delete(ctx context.Context, id string) error
	ListUpdatedBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}

// Submitter hands a completed application to the analysis backend.
type Submitter interface {
	Submit(ctx context.Context, payload SubmissionPayload) error
}
