package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Querier interface {
	GetUser(ctx context.Context, id uuid.UUID) (GetUserRow, error)
	ListUserIDsByPhoneNumbers(ctx context.Context, phoneNumbers []string) ([]uuid.UUID, error)
}

var _ Querier = (*Queries)(nil)

const getUser = `-- name: GetUser :one
SELECT id, name, phone_number, emergency_contact
FROM users
WHERE id = $1
`

type GetUserRow struct {
	ID               uuid.UUID
	Name             string
	PhoneNumber      string
	EmergencyContact pgtype.Text
}

func (q *Queries) GetUser(ctx context.Context, id uuid.UUID) (GetUserRow, error) {
	row := q.db.QueryRow(ctx, getUser, id)
	var i GetUserRow
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.PhoneNumber,
		&i.EmergencyContact,
	)
	return i, err
}

const listUserIDsByPhoneNumbers = `-- name: ListUserIDsByPhoneNumbers :many
SELECT DISTINCT id
FROM users
WHERE phone_number = ANY($1::text[])
ORDER BY id
`

func (q *Queries) ListUserIDsByPhoneNumbers(ctx context.Context, phoneNumbers []string) ([]uuid.UUID, error) {
	rows, err := q.db.Query(ctx, listUserIDsByPhoneNumbers, phoneNumbers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
