package port

import (
	"context"

	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

type UserDirectory interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindIDsByPhoneNumbers(ctx context.Context, phones []string) ([]string, error)
}
