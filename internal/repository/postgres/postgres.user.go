// FilePath: internal/repository/postgres/postgres.user.go
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/airx/beds/server/hub/internal/database"
	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/normalize"
	"github.com/airx/beds/server/hub/internal/repository"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// siteIDList is the JSONB site_ids column.
type siteIDList []string

func (l siteIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *siteIDList) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*l = siteIDList{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported site_ids column type %T", value)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = normalize.StringList(raw)
	return nil
}

type userRow struct {
	ID        string     `db:"id"`
	Username  string     `db:"username"`
	Email     string     `db:"email"`
	Name      string     `db:"name"`
	Role      string     `db:"role"`
	SiteIDs   siteIDList `db:"site_ids"`
	Password  string     `db:"password"`
	CreatedAt time.Time  `db:"created_at"`
}

func (r *userRow) toUser() *models.User {
	return &models.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Name:      r.Name,
		Role:      models.NormalizeRole(r.Role),
		SiteIDs:   append([]string{}, r.SiteIDs...),
		CreatedAt: r.CreatedAt,
	}
}

type UserRepo struct {
	PostgresBaseRepo
	clock clockwork.Clock
	opts  repository.Options
}

func NewUserRepository(db database.DB, opts repository.Options) *UserRepo {
	opts = opts.WithDefaults()
	repo := &PostgresBaseRepo{db: db}
	return &UserRepo{PostgresBaseRepo: *repo, clock: opts.Clock, opts: opts}
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows := []*userRow{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`

	if err := r.conn().SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.NewDatabaseError("failed to list users", err)
	}
	users := make([]*models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toUser())
	}
	return users, nil
}

func (r *UserRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := &userRow{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	if err := r.conn().GetContext(ctx, row, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.NewDatabaseError("failed to get user", err)
	}
	return row.toUser(), nil
}

func (r *UserRepo) CreateUser(ctx context.Context, in *models.NewUser) (string, error) {
	user, err := repository.PrepareUser(in, r.opts, r.clock.Now().UTC())
	if err != nil {
		return "", err
	}

	var exists bool
	if err := r.conn().GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, user.Username); err != nil {
		return "", errors.NewDatabaseError("failed to check username", err)
	}
	if exists {
		return "", repository.DuplicateUsername(user.Username)
	}

	if err := insertUser(ctx, r.conn(), user); err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return "", repository.DuplicateUsername(user.Username)
		}
		return "", errors.NewDatabaseError("failed to create user", err)
	}
	return user.ID, nil
}

// DeleteUser refuses privileged accounts. The role check and delete share a row lock.
func (r *UserRepo) DeleteUser(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := r.WithTx(ctx, func(tx database.Transaction) error {
		var role string
		if err := tx.GetContext(ctx, &role, `SELECT role FROM users WHERE id = $1 FOR UPDATE`, id); err != nil {
			if stderrors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return errors.NewDatabaseError("failed to get user", err)
		}
		if models.NormalizeRole(role).IsPrivileged() {
			return repository.ProtectedUser(id)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			return errors.NewDatabaseError("failed to delete user", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *UserRepo) UpdateUserSites(ctx context.Context, id string, siteIDs []string) ([]string, bool, error) {
	clean := repository.CleanSiteIDs(siteIDs)
	res, err := r.ExecContext(ctx, `UPDATE users SET site_ids = $2::jsonb WHERE id = $1`, id, siteIDList(clean))
	if err != nil {
		return nil, false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, false, errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return nil, false, nil
	}
	return clean, true, nil
}

// FindUserByCredentials matches identifier against username or email and
// verifies the password in Go so hashed and legacy plaintext rows both work.
func (r *UserRepo) FindUserByCredentials(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, nil
	}

	rows := []*userRow{}
	query := `SELECT ` + userColumns + ` FROM users
		WHERE username = $1 OR (email <> '' AND LOWER(email) = LOWER($1))
		ORDER BY created_at ASC`
	if err := r.conn().SelectContext(ctx, &rows, query, identifier); err != nil {
		return nil, errors.NewDatabaseError("failed to look up user", err)
	}
	for _, row := range rows {
		if r.opts.Verifier.Verify(row.Password, password) {
			return row.toUser(), nil
		}
	}
	return nil, nil
}

func insertUser(ctx context.Context, db execer, u *models.User) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)`,
		u.ID, u.Username, u.Email, u.Name, string(u.Role), siteIDList(u.SiteIDs), u.PasswordHash, u.CreatedAt,
	)
	return err
}
