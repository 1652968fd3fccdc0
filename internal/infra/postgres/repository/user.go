package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/infra/postgres"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database pool.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and sets its ID.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, telegram_chat_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := postgres.Executor(ctx, r.db).QueryRow(
		ctx, query, user.Name, user.Email, user.PasswordHash, user.TelegramChatID, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `
		SELECT id, name, email, password_hash, telegram_chat_id, created_at
		FROM users
		WHERE id = $1
	`
	return r.getOne(ctx, "get user", query, userID)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := `
		SELECT id, name, email, password_hash, telegram_chat_id, created_at
		FROM users
		WHERE email = $1
	`
	return r.getOne(ctx, "get user by email", query, email)
}

func (r *UserRepository) getOne(ctx context.Context, op, query string, arg any) (*entities.User, error) {
	var u entities.User
	err := postgres.Executor(ctx, r.db).QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.TelegramChatID,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &u, nil
}

// SetTelegramChatID links or unlinks a Telegram chat.
func (r *UserRepository) SetTelegramChatID(ctx context.Context, userID int64, chatID *int64) error {
	query := "UPDATE users SET telegram_chat_id = $1 WHERE id = $2"

	tag, err := postgres.Executor(ctx, r.db).Exec(ctx, query, chatID, userID)
	if err != nil {
		return fmt.Errorf("set telegram chat id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
