package repository

import (
	"context"
	"errors"

	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SQLSTATE raised when an insert collides with a UNIQUE constraint.
const uniqueViolation = "23505"

type UserRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewUserRepository(zap *zap.Logger, db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		Log: zap,
		DB:  db,
	}
}

func (repository *UserRepository) CheckUsernameExists(ctx context.Context, username string) (int, error) {
	query := "SELECT 1 FROM users WHERE username = $1"

	var exists int
	err := repository.DB.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exists, nil
		}

		return exists, err
	}

	return exists, nil
}

func (repository *UserRepository) CheckEmailExists(ctx context.Context, email string) (int, error) {
	query := "SELECT 1 FROM users WHERE email = $1"

	var exists int
	err := repository.DB.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exists, nil
		}

		return exists, err
	}

	return exists, nil
}

func (repository *UserRepository) CreateUser(ctx context.Context, user model.User) (int64, error) {
	query := `INSERT INTO users (username, email, password, first_name, last_name, grade, courses, create_datetime, update_datetime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	courses := user.Courses
	if courses == nil {
		courses = []string{}
	}

	var id int64
	err := repository.DB.QueryRow(ctx, query, user.Username, user.Email, user.Password, user.FirstName, user.LastName, user.Grade, courses, user.CreateDatetime, user.UpdateDatetime).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if pgErr.ConstraintName == "users_email_key" {
				return 0, model.EmailConflict()
			}
			return 0, model.UsernameConflict()
		}
		return 0, err
	}

	return id, nil
}

// GetUserAuth returns id 0 when the username is unknown.
func (repository *UserRepository) GetUserAuth(ctx context.Context, username string) (int64, string, error) {
	query := "SELECT id, password FROM users WHERE username = $1 LIMIT 1"

	var id int64
	var passwordHash string

	err := repository.DB.QueryRow(ctx, query, username).Scan(&id, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, "", nil
		}
		return 0, "", err
	}

	return id, passwordHash, nil
}
