package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/otjiningirua/owfarm/internal/domain"
	"github.com/otjiningirua/owfarm/internal/store"
)

// MockStore is a testify mock of store.Store
type MockStore struct {
	mock.Mock
}

var _ store.Store = (*MockStore)(nil)

func (m *MockStore) Backend() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockStore) List(ctx context.Context, coll domain.Collection, limit int) ([]store.Document, error) {
	args := m.Called(ctx, coll, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Document), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, coll domain.Collection, id string) (store.Document, error) {
	args := m.Called(ctx, coll, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Document), args.Error(1)
}

func (m *MockStore) Insert(ctx context.Context, coll domain.Collection, doc store.Document) (store.Document, error) {
	args := m.Called(ctx, coll, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Document), args.Error(1)
}

func (m *MockStore) Update(ctx context.Context, coll domain.Collection, id string, patch store.Document) (store.Document, error) {
	args := m.Called(ctx, coll, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Document), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, coll domain.Collection, id string) error {
	args := m.Called(ctx, coll, id)
	return args.Error(0)
}

func (m *MockStore) AppendMedia(ctx context.Context, parent domain.Collection, parentID string, media store.Document) (bool, error) {
	args := m.Called(ctx, parent, parentID, media)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Settings(ctx context.Context) (store.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Document), args.Error(1)
}

func (m *MockStore) SaveSettings(ctx context.Context, patch store.Document) (store.Document, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(store.Document), args.Error(1)
}

func (m *MockStore) Count(ctx context.Context, coll domain.Collection) (int64, error) {
	args := m.Called(ctx, coll)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
