package project

import (
	"context"

	"crmdesk/internal/domain"
	"crmdesk/internal/domain/activity"
	"crmdesk/internal/domain/member"
)

type paymentReader interface {
	PaidTotals(ctx context.Context, projectIDs ...int64) (map[int64]float64, error)
	ForProject(ctx context.Context, projectID int64) ([]domain.Payment, error)
}

// Sections supplies the nested collections of GET /projects/:id/full.
type Sections struct {
	Requirements interface {
		List(ctx context.Context, projectID int64) ([]domain.Requirement, error)
	}
	Features interface {
		List(ctx context.Context, projectID int64) ([]domain.Feature, error)
	}
	Milestones interface {
		List(ctx context.Context, projectID int64) ([]domain.Milestone, error)
	}
	Members interface {
		List(ctx context.Context, projectID int64) ([]member.View, error)
	}
	Activity interface {
		ListByProject(ctx context.Context, projectID int64) ([]activity.View, error)
	}
}
