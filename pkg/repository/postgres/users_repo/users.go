package userRepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"wispgate/internal/structs"
	"wispgate/pkg/db"
	"wispgate/pkg/logger"
)

type Repo struct {
	logger logger.Logger
	db     db.Querier
}

func New(log logger.Logger, q db.Querier) *Repo {
	return &Repo{
		logger: log,
		db:     q,
	}
}

func (r *Repo) Lookup(ctx context.Context, username string) (structs.User, error) {
	var (
		query = `
            SELECT
                username,
                password_hash,
                email,
                is_admin,
                client_id
            FROM users
            WHERE username = $1
        `
		email    sql.NullString
		clientID sql.NullInt64
		user     structs.User
	)

	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.Username,
		&user.PasswordHash,
		&email,
		&user.IsAdmin,
		&clientID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return structs.User{}, structs.ErrNotFound
	}
	if err != nil {
		return structs.User{}, err
	}

	user.Email = email.String
	if clientID.Valid {
		user.ClientID = &clientID.Int64
	}

	return user, nil
}

func (r *Repo) Create(ctx context.Context, user structs.User) error {
	const query = `
        INSERT INTO users (username, password_hash, email, is_admin, client_id)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (username) DO NOTHING
    `

	tag, err := r.db.Exec(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.IsAdmin,
		user.ClientID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return structs.ErrUserExists
	}

	return nil
}
