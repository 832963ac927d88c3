package analytics

import (
	"context"
	"time"
)

type Repository interface {
	CreateVisit(ctx context.Context, v PageVisit) error
	ListVisits(ctx context.Context) ([]PageVisit, error)
	ListVisitsSince(ctx context.Context, since time.Time) ([]PageVisit, error)
	ListVisitsByPath(ctx context.Context, path string) ([]PageVisit, error)

	CreateSynthetic(ctx context.Context, sv SyntheticVisit) error
	GetSyntheticByDate(ctx context.Context, date string) (SyntheticVisit, error)
	ListSynthetic(ctx context.Context) ([]SyntheticVisit, error)
}
