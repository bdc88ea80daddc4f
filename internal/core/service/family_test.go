package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

func TestFamilyService_FindFamily(t *testing.T) {
	mockDir := new(MockUserDirectory)
	mockSnapshots := new(MockSnapshotProvider)
	svc := NewFamilyService(mockDir, mockSnapshots, zap.NewNop())

	mockDir.On("FindByID", mock.Anything, "me").Return(domain.User{ID: "me", EmergencyContact: "+15550100"}, nil)
	mockDir.On("FindIDsByPhoneNumbers", mock.Anything, []string{"+15550100"}).Return([]string{"mom", "dad"}, nil)
	mockSnapshots.On("Load", mock.Anything).Return(domain.NewSnapshot(
		domain.Presence{UserID: "stranger", SessionID: "s-stranger"},
		domain.Presence{UserID: "dad", SessionID: "s-dad", Coordinates: at(1, 1)},
	), nil)

	res, err := svc.FindFamily(context.Background(), "me")

	require.NoError(t, err)
	assert.Equal(t, []string{"mom", "dad"}, res.ContactIDs())
	assert.Equal(t, []string{"", "s-dad"}, res.SessionIDs())
	assert.Equal(t, []domain.FamilyContact{{UserID: "dad", SessionID: "s-dad", Online: true}}, res.Online())
	mockDir.AssertExpectations(t)
	mockSnapshots.AssertExpectations(t)
}

func TestFamilyService_FindFamily_NoMatchingPhoneNumbers(t *testing.T) {
	mockDir := new(MockUserDirectory)
	mockSnapshots := new(MockSnapshotProvider)
	svc := NewFamilyService(mockDir, mockSnapshots, zap.NewNop())

	mockDir.On("FindByID", mock.Anything, "me").Return(domain.User{ID: "me", EmergencyContact: "+15550100"}, nil)
	mockDir.On("FindIDsByPhoneNumbers", mock.Anything, []string{"+15550100"}).Return([]string{}, nil)

	res, err := svc.FindFamily(context.Background(), "me")

	require.NoError(t, err)
	assert.NotNil(t, res.ContactIDs())
	assert.Empty(t, res.ContactIDs())
	mockSnapshots.AssertNotCalled(t, "Load", mock.Anything)
}

func TestFamilyService_FindFamily_NoEmergencyContact(t *testing.T) {
	mockDir := new(MockUserDirectory)
	svc := NewFamilyService(mockDir, new(MockSnapshotProvider), zap.NewNop())

	mockDir.On("FindByID", mock.Anything, "me").Return(domain.User{ID: "me"}, nil)

	res, err := svc.FindFamily(context.Background(), "me")

	require.NoError(t, err)
	assert.Empty(t, res.Contacts)
	mockDir.AssertNotCalled(t, "FindIDsByPhoneNumbers", mock.Anything, mock.Anything)
}

func TestFamilyService_FindFamily_DuplicateContactIDs(t *testing.T) {
	mockDir := new(MockUserDirectory)
	mockSnapshots := new(MockSnapshotProvider)
	svc := NewFamilyService(mockDir, mockSnapshots, zap.NewNop())

	mockDir.On("FindByID", mock.Anything, "me").Return(domain.User{ID: "me", EmergencyContact: "+1"}, nil)
	mockDir.On("FindIDsByPhoneNumbers", mock.Anything, []string{"+1"}).Return([]string{"mom", "mom"}, nil)
	mockSnapshots.On("Load", mock.Anything).Return(domain.NewSnapshot(), nil)

	res, err := svc.FindFamily(context.Background(), "me")

	require.NoError(t, err)
	assert.Equal(t, []string{"mom"}, res.ContactIDs())
}

func TestFamilyService_FindFamily_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(dir *MockUserDirectory, snaps *MockSnapshotProvider)
		wantErr error
	}{
		{
			name: "user not found",
			setup: func(dir *MockUserDirectory, _ *MockSnapshotProvider) {
				dir.On("FindByID", mock.Anything, "me").Return(domain.User{}, fmt.Errorf("%w: me", domain.ErrUserNotFound))
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name: "unclassified directory error on lookup",
			setup: func(dir *MockUserDirectory, _ *MockSnapshotProvider) {
				dir.On("FindByID", mock.Anything, "me").Return(domain.User{}, errors.New("connection refused"))
			},
			wantErr: domain.ErrDirectoryFailure,
		},
		{
			name: "directory error on phone lookup",
			setup: func(dir *MockUserDirectory, _ *MockSnapshotProvider) {
				dir.On("FindByID", mock.Anything, "me").Return(domain.User{ID: "me", EmergencyContact: "+1"}, nil)
				dir.On("FindIDsByPhoneNumbers", mock.Anything, []string{"+1"}).Return([]string(nil), errors.New("timeout"))
			},
			wantErr: domain.ErrDirectoryFailure,
		},
		{
			name: "snapshot unavailable",
			setup: func(dir *MockUserDirectory, snaps *MockSnapshotProvider) {
				dir.On("FindByID", mock.Anything, "me").Return(domain.User{ID: "me", EmergencyContact: "+1"}, nil)
				dir.On("FindIDsByPhoneNumbers", mock.Anything, []string{"+1"}).Return([]string{"mom"}, nil)
				snaps.On("Load", mock.Anything).Return(domain.Snapshot{}, fmt.Errorf("%w: gone", domain.ErrSnapshotUnavailable))
			},
			wantErr: domain.ErrSnapshotUnavailable,
		},
		{
			name: "snapshot corrupt",
			setup: func(dir *MockUserDirectory, snaps *MockSnapshotProvider) {
				dir.On("FindByID", mock.Anything, "me").Return(domain.User{ID: "me", EmergencyContact: "+1"}, nil)
				dir.On("FindIDsByPhoneNumbers", mock.Anything, []string{"+1"}).Return([]string{"mom"}, nil)
				snaps.On("Load", mock.Anything).Return(domain.Snapshot{}, fmt.Errorf("%w: bad", domain.ErrSnapshotCorrupt))
			},
			wantErr: domain.ErrSnapshotCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDir := new(MockUserDirectory)
			mockSnapshots := new(MockSnapshotProvider)
			tt.setup(mockDir, mockSnapshots)
			svc := NewFamilyService(mockDir, mockSnapshots, zap.NewNop())

			res, err := svc.FindFamily(context.Background(), "me")

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, res.Contacts)
		})
	}
}

func TestFamilyService_FindFamily_SoftSnapshotFailure(t *testing.T) {
	mockDir := new(MockUserDirectory)
	mockSnapshots := new(MockSnapshotProvider)
	svc := NewFamilyService(mockDir, mockSnapshots, zap.NewNop(), WithSoftSnapshotFailure())

	mockDir.On("FindByID", mock.Anything, "me").Return(domain.User{ID: "me", EmergencyContact: "+1"}, nil)
	mockDir.On("FindIDsByPhoneNumbers", mock.Anything, []string{"+1"}).Return([]string{"mom"}, nil)
	mockSnapshots.On("Load", mock.Anything).Return(domain.Snapshot{}, fmt.Errorf("%w: gone", domain.ErrSnapshotUnavailable))

	res, err := svc.FindFamily(context.Background(), "me")

	require.NoError(t, err)
	assert.Equal(t, []domain.FamilyContact{{UserID: "mom"}}, res.Contacts)
}

func TestFamilyService_FindFamily_EmptyUserID(t *testing.T) {
	svc := NewFamilyService(new(MockUserDirectory), new(MockSnapshotProvider), zap.NewNop())

	_, err := svc.FindFamily(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidUserID)
}
