package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-master/internal/domain"
	"quiz-master/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db DBTX
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User, roles []string) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Active:       m.Active,
		Roles:        domain.RoleSet(roles),
		CreatedAt:    m.CreatedAt,
	}
}

const userColumns = `id, username, email, password_hash, active, created_at`

func (r *sqlxUserRepository) rolesFor(ctx context.Context, exec DBTX, userID string) ([]string, error) {
	var roles []string
	err := exec.SelectContext(ctx, &roles,
		`SELECT r.name FROM roles r JOIN user_roles ur ON ur.role_id = r.id WHERE ur.user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select roles for user %s: %w", userID, err)
	}
	return roles, nil
}

func (r *sqlxUserRepository) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.User
	if err := exec.SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM users ORDER BY username`); err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	users := make([]*domain.User, len(rows))
	for i := range rows {
		roles, err := r.rolesFor(ctx, exec, rows[i].ID)
		if err != nil {
			return nil, err
		}
		users[i] = toDomainUser(&rows[i], roles)
	}
	return users, nil
}

func (r *sqlxUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.User
	err := exec.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	roles, err := r.rolesFor(ctx, exec, id)
	if err != nil {
		return nil, err
	}
	return toDomainUser(&row, roles), nil
}

func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	exec := GetExecutor(ctx, r.db)
	var row models.User
	err := exec.GetContext(ctx, &row, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	roles, err := r.rolesFor(ctx, exec, row.ID)
	if err != nil {
		return nil, err
	}
	return toDomainUser(&row, roles), nil
}

// SaveUser inserts the user row and its role links. Role names are resolved
// against the fixed roles table; unknown names are a validation error.
func (r *sqlxUserRepository) SaveUser(ctx context.Context, user *domain.User) error {
	exec := GetExecutor(ctx, r.db)
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := exec.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Active, createdAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewConflictError(fmt.Sprintf("email %s is already registered", user.Email))
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return r.replaceRoles(ctx, exec, user.ID, user.Roles)
}

func (r *sqlxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	exec := GetExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, active = ? WHERE id = ?`,
		user.Username, user.Email, user.Active, user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.NewConflictError(fmt.Sprintf("email %s is already registered", user.Email))
		}
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return r.replaceRoles(ctx, exec, user.ID, user.Roles)
}

func (r *sqlxUserRepository) replaceRoles(ctx context.Context, exec DBTX, userID string, roles domain.RoleSet) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear roles for user %s: %w", userID, err)
	}
	for _, role := range roles {
		res, err := exec.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role_id) SELECT ?, id FROM roles WHERE name = ?`, userID, role)
		if err != nil {
			return fmt.Errorf("failed to link role %s: %w", role, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return domain.NewValidationError(fmt.Sprintf("unknown role: %s", role))
		}
	}
	return nil
}

func (r *sqlxUserRepository) DeleteUser(ctx context.Context, id string) error {
	exec := GetExecutor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete roles for user %s: %w", id, err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}
