package entities

import "time"

// User is an account owning decks and study progress.
type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string
	TelegramChatID *int64
	CreatedAt      time.Time
}

func NewUser(name, email, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}
