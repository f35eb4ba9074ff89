package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/guilbd/analise-apostas/logger"
	"github.com/guilbd/analise-apostas/models"
	"github.com/guilbd/analise-apostas/pkg/common"
)

// UserStore manages accounts and login sessions in Postgres.
type UserStore struct {
	db         *sql.DB
	sessionTTL time.Duration
}

func NewUserStore(db *sql.DB, sessionTTL time.Duration) *UserStore {
	return &UserStore{db: db, sessionTTL: sessionTTL}
}

// SeedDefaultAdmin creates the initial admin account when the users table is
// empty, so a fresh deployment can be logged into.
func (s *UserStore) SeedDefaultAdmin(username, password string) error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := s.CreateUser(username, password, "", "Administrador", models.AccessAdmin); err != nil {
		return err
	}
	logger.Printf("Seeded default admin user %q", username)
	return nil
}

// CreateUser registers an account with a bcrypt password hash.
func (s *UserStore) CreateUser(username, password, email, fullName, accessLevel string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, common.ErrInvalidInput
	}
	if accessLevel == "" {
		accessLevel = models.AccessUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    username,
		Email:       email,
		FullName:    fullName,
		AccessLevel: accessLevel,
	}

	query := `
		INSERT INTO users (username, password_hash, email, full_name, access_level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err = s.db.QueryRow(query, username, string(hash), nullable(email), nullable(fullName), accessLevel).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and opens a session on success.
func (s *UserStore) Authenticate(username, password string) (*models.Session, *models.User, error) {
	user, err := s.userByUsername(username)
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, common.ErrUnauthorized
	}

	now := time.Now()
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	_, err = s.db.Exec(
		`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		session.Token, session.UserID, session.CreatedAt, session.ExpiresAt,
	)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.db.Exec(`UPDATE users SET last_access = $1 WHERE id = $2`, now, user.ID); err != nil {
		logger.Warnf("Failed to record last access for %s: %v", username, err)
	}

	return session, user, nil
}

// UserBySession resolves a session token to its user. Expired sessions are
// removed and rejected.
func (s *UserStore) UserBySession(token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthorized
	}

	var session models.Session
	err := s.db.QueryRow(
		`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = $1`,
		token,
	).Scan(&session.Token, &session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if session.Expired() {
		s.Logout(token)
		return nil, common.ErrUnauthorized
	}

	return s.userByID(session.UserID)
}

// Logout discards a session.
func (s *UserStore) Logout(token string) {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE token = $1`, token); err != nil {
		logger.Warnf("Failed to delete session: %v", err)
	}
}

// PurgeExpiredSessions removes sessions past their TTL.
func (s *UserStore) PurgeExpiredSessions() error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at < $1`, time.Now())
	return err
}

func (s *UserStore) userByUsername(username string) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, username, password_hash, COALESCE(email, ''), COALESCE(full_name, ''), access_level, created_at, last_access
		 FROM users WHERE username = $1`, username))
}

func (s *UserStore) userByID(id int64) (*models.User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, username, password_hash, COALESCE(email, ''), COALESCE(full_name, ''), access_level, created_at, last_access
		 FROM users WHERE id = $1`, id))
}

func (s *UserStore) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var lastAccess sql.NullTime
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email,
		&user.FullName, &user.AccessLevel, &user.CreatedAt, &lastAccess)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if lastAccess.Valid {
		user.LastAccess = &lastAccess.Time
	}
	return &user, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
