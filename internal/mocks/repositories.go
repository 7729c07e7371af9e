package mocks

import (
	"context"

	"github.com/seu-repo/takeaway-voice/internal/domain"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	SaveFunc     func(ctx context.Context, o *domain.Order) error
	UpdateFunc   func(ctx context.Context, o *domain.Order) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Order, error)
	FindAllFunc  func(ctx context.Context) ([]domain.Order, error)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *domain.Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, o)
	}
	return nil
}

func (m *MockOrderRepository) Update(ctx context.Context, o *domain.Order) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, o)
	}
	return nil
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]domain.Order, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	SaveFunc     func(ctx context.Context, s *domain.CallSession) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.CallSession, error)
}

func (m *MockSessionRepository) Save(ctx context.Context, s *domain.CallSession) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, s)
	}
	return nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id string) (*domain.CallSession, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

// InMemorySessionRepository stores sessions in a map for state machine
// tests that span several turns.
type InMemorySessionRepository struct {
	Sessions map[string]*domain.CallSession
}

func NewInMemorySessionRepository() *InMemorySessionRepository {
	return &InMemorySessionRepository{Sessions: make(map[string]*domain.CallSession)}
}

func (m *InMemorySessionRepository) Save(ctx context.Context, s *domain.CallSession) error {
	copied := *s
	m.Sessions[s.ID] = &copied
	return nil
}

func (m *InMemorySessionRepository) FindByID(ctx context.Context, id string) (*domain.CallSession, error) {
	s, ok := m.Sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}
