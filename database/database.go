package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/guilbd/analise-apostas/pkg/common"
)

// Connect opens and verifies the Postgres connection.
func Connect(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, common.NewAppError("DB_OPEN", "failed to open database", err)
	}

	if err := db.Ping(); err != nil {
		return nil, common.NewAppError("DB_CONNECT", "failed to reach database", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// Migrate creates the schema. Statements are idempotent so this runs on
// every startup.
func Migrate(db *sql.DB) error {
	migrations := []string{
		// Contas de acesso ao painel
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			email VARCHAR(255),
			full_name VARCHAR(255),
			access_level VARCHAR(20) NOT NULL DEFAULT 'usuario',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_access TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,

		// Sessões de login
		`CREATE TABLE IF NOT EXISTS sessions (
			token VARCHAR(64) PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			expires_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,

		// Índice de lotes de palpites gerados
		`CREATE TABLE IF NOT EXISTS prediction_batches (
			id BIGSERIAL PRIMARY KEY,
			run_id VARCHAR(36) UNIQUE NOT NULL,
			filename VARCHAR(255) UNIQUE NOT NULL,
			fixtures INTEGER NOT NULL DEFAULT 0,
			generated_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prediction_batches_generated_at ON prediction_batches(generated_at)`,

		// Estatísticas brutas coletadas por jogo, para auditoria dos palpites
		`CREATE TABLE IF NOT EXISTS fixture_stats (
			id BIGSERIAL PRIMARY KEY,
			run_id VARCHAR(36) NOT NULL,
			match_label VARCHAR(255) NOT NULL,
			competition VARCHAR(255),
			kickoff VARCHAR(50),
			stats_json TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fixture_stats_run_id ON fixture_stats(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fixture_stats_match_label ON fixture_stats(match_label)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
