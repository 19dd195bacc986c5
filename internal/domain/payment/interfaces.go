package payment

import (
	"context"

	"crmdesk/internal/domain"
)

type projectGuard interface {
	Project(ctx context.Context, workspaceID, id int64) (*domain.Project, error)
}
