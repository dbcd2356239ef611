package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/itdesk/extract-service/internal/core/domain"
)

// MockTicketSource is a mock implementation of ports.TicketSource
type MockTicketSource struct {
	mock.Mock
}

func NewMockTicketSource() *MockTicketSource {
	return &MockTicketSource{}
}

func (m *MockTicketSource) LoadTickets(ctx context.Context, limit int) ([]*domain.Ticket, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Ticket), args.Error(1)
}

// MockCategorySource is a mock implementation of ports.CategorySource
type MockCategorySource struct {
	mock.Mock
}

func NewMockCategorySource() *MockCategorySource {
	return &MockCategorySource{}
}

func (m *MockCategorySource) LoadCategories(ctx context.Context) (domain.CategoryMap, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.CategoryMap), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockSnapshotProvider is a mock implementation of ports.SnapshotProvider
type MockSnapshotProvider struct {
	mock.Mock
}

func NewMockSnapshotProvider() *MockSnapshotProvider {
	return &MockSnapshotProvider{}
}

func (m *MockSnapshotProvider) SnapshotTickets() ([]*domain.Ticket, domain.CategoryMap, error) {
	args := m.Called()
	var tickets []*domain.Ticket
	if args.Get(0) != nil {
		tickets = args.Get(0).([]*domain.Ticket)
	}
	var categories domain.CategoryMap
	if args.Get(1) != nil {
		categories = args.Get(1).(domain.CategoryMap)
	}
	return tickets, categories, args.Error(2)
}
