package repositories

import (
	"database/sql"
	"fmt"
	"sync"

	"redline/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
}

// --- in-memory (default; the prototype deployment has no database) ---

type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by email
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{users: make(map[string]*models.User)}
}

func (r *memoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return fmt.Errorf("user create: email %q already registered", user.Email)
	}
	cp := *user
	r.users[user.Email] = &cp
	return nil
}

func (r *memoryUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// --- postgres (selected when database.url is configured) ---

type PostgresUserRepository struct {
	DB *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

func (r *PostgresUserRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.DB.Exec(q, user.ID, user.Email, user.PasswordHash, user.CreatedAt); err != nil {
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByEmail(email string) (*models.User, error) {
	const q = `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1
	`
	row := r.DB.QueryRow(q, email)
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return &u, nil
}
