package handlers

import (
	"context"

	"github.com/localpulse/localpulse/internal/application/services"
	"github.com/localpulse/localpulse/internal/domain/entities"
)

// PageService is the page-view API the handlers depend on
type PageService interface {
	Create(ctx context.Context) (*services.PageState, error)
	State(ctx context.Context, id string) (*services.PageState, error)
	Search(ctx context.Context, id, keywords string) (*services.PageState, error)
	Browse(ctx context.Context, id, city string) (*services.PageState, error)
	Cities(ctx context.Context) ([]string, error)
	SetHover(ctx context.Context, id, resultID string, source services.HoverSource) (string, error)
	ClearHover(ctx context.Context, id string, source services.HoverSource) (string, error)
	DismissWelcome(ctx context.Context, id string) (entities.WelcomeView, error)
	ReportLocation(ctx context.Context, id string, coords entities.Coordinates) (entities.UserLocation, error)
	DenyLocation(ctx context.Context, id, reason string) (entities.UserLocation, error)
	ListView(ctx context.Context, id string, filter entities.ListFilter, order entities.SortOrder) (entities.ListView, error)
	MapScene(ctx context.Context, id string) (entities.MapScene, error)
	StaticMap(ctx context.Context, id string, width, height int) ([]byte, string, error)
	Subscribe(ctx context.Context, id string) (<-chan *entities.PageEvent, error)
}

var _ PageService = (*services.SessionService)(nil)
