package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/technoapex/timesheet-pro/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetPasswordForEmail(email string) (string, string, string, error) {
	var passwordHash string
	var userID string
	var role string
	query := `SELECT id, password_hash, role FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", "", auth.ErrInvalidCredentials
		}
		return "", "", "", err
	}
	return passwordHash, userID, role, nil
}

func (r *Repository) GetUserByID(userID int64) (*auth.User, error) {
	var user auth.User

	query := `SELECT id, email, role FROM users WHERE id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Email, &user.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}

	return &user, nil
}

func (r *Repository) CreateUser(email, passwordHash, role string) (*auth.User, error) {
	now := time.Now()

	query := `INSERT INTO users (email, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id`

	var id int64
	row := r.db.Raw(query, email, passwordHash, role, now, now).Row()
	if err := row.Scan(&id); err != nil {
		return nil, err
	}

	return &auth.User{ID: id, Email: email, Role: role}, nil
}
