package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/localpulse/localpulse/internal/api/handlers"
	"github.com/localpulse/localpulse/internal/application/services"
	"github.com/localpulse/localpulse/internal/domain/entities"
)

type mockPageService struct {
	mock.Mock
}

var _ handlers.PageService = (*mockPageService)(nil)

func (m *mockPageService) state(args mock.Arguments) (*services.PageState, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PageState), args.Error(1)
}

func (m *mockPageService) Create(ctx context.Context) (*services.PageState, error) {
	return m.state(m.Called(ctx))
}

func (m *mockPageService) State(ctx context.Context, id string) (*services.PageState, error) {
	return m.state(m.Called(ctx, id))
}

func (m *mockPageService) Search(ctx context.Context, id, keywords string) (*services.PageState, error) {
	return m.state(m.Called(ctx, id, keywords))
}

func (m *mockPageService) Browse(ctx context.Context, id, city string) (*services.PageState, error) {
	return m.state(m.Called(ctx, id, city))
}

func (m *mockPageService) Cities(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockPageService) SetHover(ctx context.Context, id, resultID string, source services.HoverSource) (string, error) {
	args := m.Called(ctx, id, resultID, source)
	return args.String(0), args.Error(1)
}

func (m *mockPageService) ClearHover(ctx context.Context, id string, source services.HoverSource) (string, error) {
	args := m.Called(ctx, id, source)
	return args.String(0), args.Error(1)
}

func (m *mockPageService) DismissWelcome(ctx context.Context, id string) (entities.WelcomeView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.WelcomeView), args.Error(1)
}

func (m *mockPageService) ReportLocation(ctx context.Context, id string, coords entities.Coordinates) (entities.UserLocation, error) {
	args := m.Called(ctx, id, coords)
	return args.Get(0).(entities.UserLocation), args.Error(1)
}

func (m *mockPageService) DenyLocation(ctx context.Context, id, reason string) (entities.UserLocation, error) {
	args := m.Called(ctx, id, reason)
	return args.Get(0).(entities.UserLocation), args.Error(1)
}

func (m *mockPageService) ListView(ctx context.Context, id string, filter entities.ListFilter, order entities.SortOrder) (entities.ListView, error) {
	args := m.Called(ctx, id, filter, order)
	return args.Get(0).(entities.ListView), args.Error(1)
}

func (m *mockPageService) MapScene(ctx context.Context, id string) (entities.MapScene, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.MapScene), args.Error(1)
}

func (m *mockPageService) StaticMap(ctx context.Context, id string, width, height int) ([]byte, string, error) {
	args := m.Called(ctx, id, width, height)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *mockPageService) Subscribe(ctx context.Context, id string) (<-chan *entities.PageEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.PageEvent), args.Error(1)
}
