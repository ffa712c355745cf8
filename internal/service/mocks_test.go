package service

import (
	"context"
	"sync"

	"github.com/anandology/stringart.in/internal/cache"
	"github.com/anandology/stringart.in/internal/domain"
	"github.com/anandology/stringart.in/internal/repository"
)

// MockRepository implements repository.OrderRepository in memory.
type MockRepository struct {
	mu          sync.Mutex
	next        int64
	Orders      map[int64]*domain.Order
	NextErr     error
	CreateErr   error
	GetErr      error
	NextCalls   int
	CreateCalls int
	GetCalls    int
	// BlockCreate makes CreateOrder wait for its context to end.
	BlockCreate bool
	// GetStarted, when set, is signalled as GetOrderByNumber begins, and
	// GetRelease holds it until closed or the context ends.
	GetStarted  chan struct{}
	GetRelease  chan struct{}
}

func NewMockRepository() *MockRepository {
	return &MockRepository{Orders: make(map[int64]*domain.Order)}
}

func (m *MockRepository) NextOrderNumber(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NextCalls++
	if m.NextErr != nil {
		return 0, m.NextErr
	}
	m.next++
	return m.next, nil
}

func (m *MockRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	if m.BlockCreate {
		<-ctx.Done()
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	if _, ok := m.Orders[order.Number]; ok {
		return repository.ErrDuplicateOrder
	}
	stored := order.Clone()
	m.Orders[order.Number] = &stored
	return nil
}

func (m *MockRepository) GetOrderByNumber(ctx context.Context, number int64) (*domain.Order, error) {
	if m.GetStarted != nil {
		select {
		case m.GetStarted <- struct{}{}:
		default:
		}
	}
	if m.GetRelease != nil {
		select {
		case <-m.GetRelease:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	order, ok := m.Orders[number]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	c := order.Clone()
	return &c, nil
}

func (m *MockRepository) ListOrders(context.Context, int) ([]*domain.Order, error) {
	return nil, nil
}

func (m *MockRepository) RunMigrations(*repository.Credentials) error {
	return nil
}

func (m *MockRepository) Close() error {
	return nil
}

type MockCache struct {
	mu      sync.Mutex
	Orders  map[int64]*domain.Order
	GetErr  error
	SetErr  error
	SetKeys []int64
}

func NewMockCache() *MockCache {
	return &MockCache{Orders: make(map[int64]*domain.Order)}
}

func (m *MockCache) Get(_ context.Context, number int64) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	order, ok := m.Orders[number]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	c := order.Clone()
	return &c, nil
}

func (m *MockCache) Set(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetKeys = append(m.SetKeys, order.Number)
	if m.SetErr != nil {
		return m.SetErr
	}
	c := order.Clone()
	m.Orders[order.Number] = &c
	return nil
}

type MockNotifier struct {
	mu     sync.Mutex
	Orders []domain.Order
}

func (m *MockNotifier) Notify(order domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Orders = append(m.Orders, order)
}

func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Orders)
}
