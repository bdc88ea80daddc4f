package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

// Directory serves user lookups for the family query.
type Directory struct {
	repo Querier
}

func NewDirectory(repo Querier) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) FindByID(ctx context.Context, id string) (domain.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %q", domain.ErrInvalidUserID, id)
	}

	row, err := d.repo.GetUser(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, id)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: get user %s: %v", domain.ErrDirectoryFailure, id, err)
	}

	return domain.User{
		ID:               row.ID.String(),
		Name:             row.Name,
		PhoneNumber:      row.PhoneNumber,
		EmergencyContact: row.EmergencyContact.String,
	}, nil
}

func (d *Directory) FindIDsByPhoneNumbers(ctx context.Context, phones []string) ([]string, error) {
	if len(phones) == 0 {
		return []string{}, nil
	}

	ids, err := d.repo.ListUserIDsByPhoneNumbers(ctx, phones)
	if err != nil {
		return nil, fmt.Errorf("%w: list users by phone: %v", domain.ErrDirectoryFailure, err)
	}

	return lo.Map(ids, func(id uuid.UUID, _ int) string { return id.String() }), nil
}
