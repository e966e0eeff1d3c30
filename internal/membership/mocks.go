package membership

import (
	"context"

	"github.com/groophq/groopsync/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Group), args.Error(1)
}

func (m *MockAPI) JoinGroup(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPI) LeaveGroup(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAPI) PendingMembers(ctx context.Context, id string) ([]*model.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Member), args.Error(1)
}

func (m *MockAPI) ApproveMember(ctx context.Context, groupID, username string) error {
	args := m.Called(ctx, groupID, username)
	return args.Error(0)
}

func (m *MockAPI) RejectMember(ctx context.Context, groupID, username string) error {
	args := m.Called(ctx, groupID, username)
	return args.Error(0)
}

func (m *MockAPI) RemoveMember(ctx context.Context, groupID, username string) error {
	args := m.Called(ctx, groupID, username)
	return args.Error(0)
}
