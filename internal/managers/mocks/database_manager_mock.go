package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"foodconnect/internal/interfaces"
)

type MockDatabaseManager struct {
	mock.Mock
}

func (m *MockDatabaseManager) GetPool() interfaces.PgxPoolIface {
	args := m.Called()
	pool, _ := args.Get(0).(interfaces.PgxPoolIface)
	return pool
}

func (m *MockDatabaseManager) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
