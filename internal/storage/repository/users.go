package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

const userColumns = `u.id, u.email, u.password_hash, u.first_name, u.last_name, u.phone, u.city, u.avatar,
	u.is_active, u.is_staff, u.is_superuser, u.last_login, u.date_joined,
	EXISTS (
		SELECT 1 FROM user_groups ug JOIN groups g ON g.id = ug.group_id
		WHERE ug.user_id = u.id AND g.name = '` + models.ModeratorsGroup + `'
	) AS is_moderator`

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Занятый email даёт ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"

	query := `INSERT INTO users (email, password_hash, first_name, last_name, phone, city, avatar,
				  is_active, is_staff, is_superuser)
			  VALUES (:email, :password_hash, :first_name, :last_name, :phone, :city, :avatar,
				  :is_active, :is_staff, :is_superuser)
			  RETURNING id`
	rows, err := s.db.NamedQueryContext(ctx, query, user)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var id int64
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("%s: %w", op, mapError(err))
		}
		return 0, fmt.Errorf("%s: no id returned", op)
	}
	if err := rows.Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetUserByID возвращает пользователя по ID.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"

	var u models.User
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	if err := s.db.GetContext(ctx, &u, query, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	var u models.User
	query := `SELECT ` + userColumns + ` FROM users u WHERE lower(u.email) = lower($1)`
	if err := s.db.GetContext(ctx, &u, query, email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &u, nil
}

// ListUsers возвращает страницу пользователей и их общее число.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	const op = "storage.ListUsers"

	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var users []models.User
	query := `SELECT ` + userColumns + ` FROM users u ORDER BY u.id LIMIT $1 OFFSET $2`
	if err := s.db.SelectContext(ctx, &users, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return users, count, nil
}

// UpdateProfile меняет заданные поля профиля и возвращает обновлённую запись.
func (s *Storage) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateProfile"

	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			phone      = COALESCE($4, phone),
			city       = COALESCE($5, city),
			avatar     = COALESCE($6, avatar)
		WHERE id = $1`,
		id, upd.FirstName, upd.LastName, upd.Phone, upd.City, upd.Avatar)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return s.GetUserByID(ctx, id)
}

// DeleteUser удаляет пользователя вместе со всеми его курсами, уроками,
// подписками и платежами.
func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	const op = "storage.DeleteUser"

	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// TouchLastLogin фиксирует время успешного входа.
func (s *Storage) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	const op = "storage.TouchLastLogin"

	if _, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeactivateInactive деактивирует активных пользователей, кроме superuser,
// последний вход которых был раньше cutoff. Возвращает число деактивированных.
func (s *Storage) DeactivateInactive(ctx context.Context, cutoff time.Time) (int64, error) {
	const op = "storage.DeactivateInactive"

	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET is_active = FALSE
		WHERE is_active AND NOT is_superuser AND last_login < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// AddUserToGroup включает пользователя в группу name.
func (s *Storage) AddUserToGroup(ctx context.Context, userID int64, name string) error {
	const op = "storage.AddUserToGroup"

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO user_groups (user_id, group_id)
		SELECT $1, g.id FROM groups g WHERE g.name = $2
		ON CONFLICT DO NOTHING`, userID, name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM groups WHERE name = $1)`, name); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: group %q: %w", op, name, ErrNotFound)
		}
	}
	return nil
}
