package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
	"github.com/oksasatya/go-user-directory/internal/domain/repository"
	appErr "github.com/oksasatya/go-user-directory/pkg/errors"
)

// DB is the subset of *pgxpool.Pool used by the repository.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

const userColumns = `id, first_name, last_name, email, date_of_birth,
		COALESCE(phone, ''), COALESCE(address, ''), COALESCE(profile_picture, ''),
		created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, page, size int) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, size, (page-1)*size)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list users failed")
	}
	return collectUsers(rows, "list users failed")
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, bool, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, appErr.Wrap(err, appErr.CodeInternal, "get user failed")
	}
	return &u, true, nil
}

func (r *UserRepository) Search(ctx context.Context, term string) ([]entity.User, error) {
	pattern := "%" + escapeLike(term) + "%"
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE first_name ILIKE $1 ESCAPE '\'
		   OR last_name ILIKE $1 ESCAPE '\'
		   OR email ILIKE $1 ESCAPE '\'
		ORDER BY created_at, id
	`, pattern)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "search users failed")
	}
	return collectUsers(rows, "search users failed")
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, appErr.Wrap(err, appErr.CodeInternal, "count users failed")
	}
	return n, nil
}

// Upsert applies the batch in one transaction. xmax is zero only for rows
// created by this statement, which tells inserts and updates apart.
func (r *UserRepository) Upsert(ctx context.Context, users []entity.User) (repository.UpsertResult, error) {
	var res repository.UpsertResult
	if len(users) == 0 {
		return res, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return res, appErr.Wrap(err, appErr.CodeInternal, "begin upsert failed")
	}

	for _, u := range users {
		var inserted bool
		err := tx.QueryRow(ctx, `
			INSERT INTO users (id, first_name, last_name, email, date_of_birth, phone, address, profile_picture)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				email = EXCLUDED.email,
				date_of_birth = EXCLUDED.date_of_birth,
				phone = EXCLUDED.phone,
				address = EXCLUDED.address,
				profile_picture = EXCLUDED.profile_picture,
				updated_at = now()
			RETURNING (xmax = 0)
		`, u.ID, u.FirstName, u.LastName, u.Email, u.DateOfBirth, u.Phone, u.Address, u.ProfilePicture).Scan(&inserted)
		if err != nil {
			_ = tx.Rollback(ctx)
			return repository.UpsertResult{}, appErr.Wrap(err, appErr.CodeInternal, "upsert user failed").WithMeta("user_id", u.ID)
		}
		if inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return repository.UpsertResult{}, appErr.Wrap(err, appErr.CodeInternal, "commit upsert failed")
	}
	return res, nil
}

// Ping checks that the database is reachable.
func (r *UserRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "database unreachable")
	}
	return nil
}

func scanUser(row pgx.Row) (entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.DateOfBirth,
		&u.Phone, &u.Address, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func collectUsers(rows pgx.Rows, msg string) ([]entity.User, error) {
	defer rows.Close()

	out := make([]entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInternal, msg)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, msg)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in term match literally.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.UserSearcher   = (*UserRepository)(nil)
)
