package models

import "time"

// Access levels.
const (
	AccessAdmin = "admin"
	AccessUser  = "usuario"
)

// User is an account allowed into the dashboard.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Email        string     `json:"email,omitempty"`
	FullName     string     `json:"nome_completo,omitempty"`
	AccessLevel  string     `json:"nivel_acesso"`
	CreatedAt    time.Time  `json:"data_criacao"`
	LastAccess   *time.Time `json:"ultimo_acesso,omitempty"`
}

// IsAdmin reports whether the user may reach admin routes.
func (u *User) IsAdmin() bool {
	return u.AccessLevel == AccessAdmin
}

// Session is a logged-in browser session.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its TTL.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// BatchRecord indexes one generated prediction batch.
type BatchRecord struct {
	ID          int64     `json:"id"`
	RunID       string    `json:"run_id"`
	Filename    string    `json:"arquivo"`
	Fixtures    int       `json:"jogos"`
	GeneratedAt time.Time `json:"gerado_em"`
}
