package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hatchops/internal/notify"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, e notify.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
