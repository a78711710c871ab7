package site

import (
	"context"

	"geoattendance/backend/internal/entity"
	"geoattendance/backend/internal/service/site"
)

type Sites interface {
	List(ctx context.Context, actorID string) ([]entity.Site, error)
	Create(ctx context.Context, req site.CreateRequest) (entity.Site, error)
	Update(ctx context.Context, req site.UpdateRequest) (entity.Site, error)
	Mine(ctx context.Context, actorID string) (entity.Site, error)
	UpdateMine(ctx context.Context, req site.UpdateRequest) (entity.Site, error)
}
