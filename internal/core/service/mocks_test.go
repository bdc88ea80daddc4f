package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

type MockSnapshotProvider struct {
	mock.Mock
}

func (m *MockSnapshotProvider) Load(ctx context.Context) (domain.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserDirectory) FindIDsByPhoneNumbers(ctx context.Context, phones []string) ([]string, error) {
	args := m.Called(ctx, phones)
	return args.Get(0).([]string), args.Error(1)
}

type MockNearbyFinder struct {
	mock.Mock
}

func (m *MockNearbyFinder) FindNearby(requesterID string, snap domain.Snapshot, radiusMeters float64) []domain.NearbyUser {
	args := m.Called(requesterID, snap, radiusMeters)
	return args.Get(0).([]domain.NearbyUser)
}

func at(lat, lng float64) *domain.Coordinates {
	return &domain.Coordinates{Latitude: lat, Longitude: lng}
}
