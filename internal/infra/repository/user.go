package repository

import (
	"context"

	"mention-relay/internal/infra"
	"mention-relay/internal/pkg/pgconv"
	"mention-relay/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Soft-deleted users are filtered here rather than by the caller: a
// deleted user must never receive a mention notification.
const resolveByUsernamesSQL = `
SELECT id, username, name, email
FROM users
WHERE username = ANY($1) AND deleted_at IS NULL`

// UserRepository is the pipeline's window onto the platform's user
// directory.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) shared.IdentityResolver {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) ResolveByUsernames(ctx context.Context, handles []string) ([]shared.UserSnapshot, error) {
	if len(handles) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, resolveByUsernamesSQL, handles)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to resolve usernames", err)
	}
	defer rows.Close()

	var users []shared.UserSnapshot
	for rows.Next() {
		var (
			u     shared.UserSnapshot
			name  pgtype.Text
			email pgtype.Text
		)
		if err := rows.Scan(&u.ID, &u.Username, &name, &email); err != nil {
			return nil, infra.WrapRepoErr("failed to scan user row", err)
		}
		if p := pgconv.StringPtrFromPgtype(name); p != nil {
			u.Name = *p
		}
		if p := pgconv.StringPtrFromPgtype(email); p != nil {
			u.Email = *p
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read user rows", err)
	}

	return users, nil
}
