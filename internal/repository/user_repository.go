package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/avialine/travel-booking/internal/model"
	"github.com/avialine/travel-booking/internal/utils"
)

// UserRepo provides persistence for users, including the admin-side
// listing and mutation operations.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userCols = "id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and returns its ID.  The email is normalized
// to lower case; the password is bcrypt-hashed with the given cost.
func (r *UserRepo) Create(ctx context.Context, email, password, firstName, lastName, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, role) VALUES (?,?,?,?,?)",
		email, hash, firstName, lastName, role)
	if err != nil {
		// 1062 = MySQL duplicate entry
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users []model.User
	Total int
}

// List returns a page of users, newest first, optionally filtered by a
// search term matched against email and names.  page and limit are
// 1-indexed.
func (r *UserRepo) List(ctx context.Context, page, limit int, search string) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	where := ""
	args := []interface{}{}
	if s := strings.TrimSpace(search); s != "" {
		where = " WHERE email LIKE ? OR first_name LIKE ? OR last_name LIKE ?"
		pat := "%" + s + "%"
		args = append(args, pat, pat, pat)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := "SELECT " + userCols + " FROM users" + where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &UserPage{Users: make([]model.User, 0, limit), Total: total}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out.Users = append(out.Users, u)
	}
	return out, rows.Err()
}

// UpdateRole sets the user's role and returns the updated record.
// The role value must already be validated by the caller.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) (model.User, error) {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", role, id)
	if err != nil {
		return model.User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "no such user" from "role unchanged".
		if _, err := r.GetByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.User{}, ErrUserNotFound
			}
			return model.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// ToggleActive flips the is_active flag and returns the updated record.
func (r *UserRepo) ToggleActive(ctx context.Context, id uint64) (model.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	if _, err := r.DB.ExecContext(ctx, "UPDATE users SET is_active=? WHERE id=?", !u.IsActive, id); err != nil {
		return model.User{}, err
	}
	u.IsActive = !u.IsActive
	return u, nil
}
