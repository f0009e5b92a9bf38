package table

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetTable(ctx context.Context, id uint) (*Table, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Table), args.Error(1)
}

func (m *MockRepository) ListTables(ctx context.Context, status *Status) ([]*Table, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Table), args.Error(1)
}

func TestService_ListTables(t *testing.T) {
	ctx := context.Background()

	t.Run("No filter", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ListTables", ctx, (*Status)(nil)).Return([]*Table{{ID: 1}}, nil)

		tables, err := NewService(repo).ListTables(ctx, "")
		assert.NoError(t, err)
		assert.Len(t, tables, 1)
		repo.AssertExpectations(t)
	})

	t.Run("Valid filter", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("ListTables", ctx, mock.MatchedBy(func(s *Status) bool {
			return s != nil && *s == StatusOccupied
		})).Return([]*Table{}, nil)

		_, err := NewService(repo).ListTables(ctx, "Occupied")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Invalid filter", func(t *testing.T) {
		repo := new(MockRepository)

		_, err := NewService(repo).ListTables(ctx, "Dirty")
		assert.ErrorIs(t, err, ErrInvalidStatus)
		repo.AssertNotCalled(t, "ListTables", mock.Anything, mock.Anything)
	})
}

func TestService_GetTable(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	repo.On("GetTable", ctx, uint(3)).Return(nil, ErrTableNotFound)

	_, err := NewService(repo).GetTable(ctx, 3)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusAvailable.Valid())
	assert.True(t, StatusOccupied.Valid())
	assert.True(t, StatusBillRequested.Valid())
	assert.False(t, Status("Reserved").Valid())
}
