package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/chatbot-dashboard/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает запись с присвоенным ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if user.Role == "" {
		user.Role = "user"
	}
	query := `INSERT INTO users (username, password_hash, email, full_name, avatar_url, role)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.FullName,
		user.AvatarURL, user.Role).Scan(&user.ID, &user.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, password_hash, email, full_name, avatar_url, role, created_at
			  FROM users
			  WHERE id = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email,
		&u.FullName, &u.AvatarURL, &u.Role, &u.CreatedAt); err != nil {
		return nil, wrapNotFound(op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, password_hash, email, full_name, avatar_url, role, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email,
		&u.FullName, &u.AvatarURL, &u.Role, &u.CreatedAt); err != nil {
		return nil, wrapNotFound(op, err)
	}
	return u, nil
}

// UpdateUser применяет частичное обновление профиля и возвращает итоговую запись.
func (s *Storage) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET email = COALESCE($1, email),
			      full_name = COALESCE($2, full_name),
			      avatar_url = COALESCE($3, avatar_url),
			      password_hash = COALESCE($4, password_hash)
			  WHERE id = $5
			  RETURNING id, username, password_hash, email, full_name, avatar_url, role, created_at`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query,
		patch.Email, patch.FullName, patch.AvatarURL, patch.PasswordHash, id)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email,
		&u.FullName, &u.AvatarURL, &u.Role, &u.CreatedAt); err != nil {
		return nil, wrapNotFound(op, err)
	}
	return u, nil
}
