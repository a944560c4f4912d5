package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserExists is returned when registering a username that is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned when a credential check fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserDirectory is the credential lookup consumed by the auth handlers.
type UserDirectory interface {
	Register(ctx context.Context, username, password string) error
	Verify(ctx context.Context, username, password string) error
}

// Directory is a SQLite-backed UserDirectory storing bcrypt password
// hashes.
type Directory struct {
	db  *sql.DB
	log *zap.Logger
}

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		hashed_password TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
`

// Open opens the user directory at path, creating the database and its
// schema if needed.
func Open(path string, log *zap.Logger) (*Directory, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create users table: %v", err)
	}

	return &Directory{db: db, log: log}, nil
}

// Close closes the underlying database connection.
func (d *Directory) Close() error {
	return d.db.Close()
}

// Register stores a new user. Returns ErrUserExists when the username is
// already taken.
func (d *Directory) Register(ctx context.Context, username, password string) error {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username,
	).Scan(&count)
	if err != nil {
		d.log.Error("Failed to check existing user", zap.String("username", username), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = d.db.ExecContext(ctx,
		`INSERT INTO users (username, hashed_password) VALUES (?, ?)`,
		username, string(hashed),
	)
	if err != nil {
		d.log.Error("Failed to create user", zap.String("username", username), zap.Error(err))
		return err
	}

	return nil
}

// Verify checks a username/password pair. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (d *Directory) Verify(ctx context.Context, username, password string) error {
	var hashed string
	err := d.db.QueryRowContext(ctx,
		`SELECT hashed_password FROM users WHERE username = ?`, username,
	).Scan(&hashed)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidCredentials
	}
	if err != nil {
		d.log.Error("Failed to look up user", zap.String("username", username), zap.Error(err))
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}
