// Package repository declares the storage contracts the service layer
// depends on. Implementations live in subpackages.
package repository

import (
	"context"

	"github.com/sakif/coding-mentor/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	GetByID(ctx context.Context, id string) (*model.Report, error)
	List(ctx context.Context, opts ListOptions) ([]model.ReportSummary, error)
	Delete(ctx context.Context, id string) error
}
