package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	"github.com/AnimeshnikLeon/climate-app/internal/entities"
	apperrors "github.com/AnimeshnikLeon/climate-app/pkg/errors"
)

const (
	userTable      = "users"
	userJoinFields = "u.id, u.fio, u.phone, u.login, u.password_hash, u.role_id, ur.name"
	userJoinRole   = "users u JOIN user_roles ur ON u.role_id = ur.id"
)

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, limit, offset uint64) ([]dto.UserDTO, uint64, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByLogin(ctx context.Context, login string) (*entities.User, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO, passwordHash string) (*dto.UserDTO, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO, passwordHash *string) (*dto.UserDTO, error)
	GetUsersByRole(ctx context.Context, roleName string) ([]dto.ShortUserDTO, error)
}

type userRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &userRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Fio, &u.Phone, &u.Login, &u.Password, &u.RoleID, &u.RoleName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования пользователя: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetUsers(ctx context.Context, limit, offset uint64) ([]dto.UserDTO, uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	if total == 0 {
		return []dto.UserDTO{}, 0, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY u.fio LIMIT $1 OFFSET $2`, userJoinFields, userJoinRole)
	rows, err := r.storage.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}
	defer rows.Close()

	users := make([]dto.UserDTO, 0)
	for rows.Next() {
		var u entities.User
		if err := rows.Scan(&u.ID, &u.Fio, &u.Phone, &u.Login, &u.Password, &u.RoleID, &u.RoleName); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования пользователя в списке: %w", err)
		}
		users = append(users, dto.UserDTO{
			ID: u.ID, Fio: u.Fio, Phone: u.Phone, Login: u.Login,
			RoleID: u.RoleID, RoleName: u.RoleName,
		})
	}
	return users, total, rows.Err()
}

func (r *userRepository) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE u.id = $1`, userJoinFields, userJoinRole)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *userRepository) FindUserByLogin(ctx context.Context, login string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE u.login = $1`, userJoinFields, userJoinRole)
	return scanUser(r.storage.QueryRow(ctx, query, login))
}

func (r *userRepository) CreateUser(ctx context.Context, payload dto.CreateUserDTO, passwordHash string) (*dto.UserDTO, error) {
	query := `
		INSERT INTO users (fio, phone, login, password_hash, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id`
	var newID uint64
	err := r.storage.QueryRow(ctx, query, payload.Fio, payload.Phone, payload.Login, passwordHash, payload.RoleID).Scan(&newID)
	if err != nil {
		return nil, translatePgError(err)
	}

	created, err := r.FindUser(ctx, newID)
	if err != nil {
		return nil, err
	}
	return &dto.UserDTO{
		ID: created.ID, Fio: created.Fio, Phone: created.Phone, Login: created.Login,
		RoleID: created.RoleID, RoleName: created.RoleName,
	}, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO, passwordHash *string) (*dto.UserDTO, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	if payload.Fio != nil {
		setClauses = append(setClauses, fmt.Sprintf("fio = $%d", argID))
		args = append(args, *payload.Fio)
		argID++
	}
	if payload.Phone != nil {
		setClauses = append(setClauses, fmt.Sprintf("phone = $%d", argID))
		args = append(args, *payload.Phone)
		argID++
	}
	if passwordHash != nil {
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", argID))
		args = append(args, *passwordHash)
		argID++
	}
	if payload.RoleID != nil {
		setClauses = append(setClauses, fmt.Sprintf("role_id = $%d", argID))
		args = append(args, *payload.RoleID)
		argID++
	}

	if len(setClauses) > 0 {
		setClauses = append(setClauses, "updated_at = NOW()")
		query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", userTable, strings.Join(setClauses, ", "), argID)
		args = append(args, id)

		result, err := r.storage.Exec(ctx, query, args...)
		if err != nil {
			return nil, translatePgError(err)
		}
		if result.RowsAffected() == 0 {
			return nil, apperrors.ErrNotFound
		}
	}

	updated, err := r.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.UserDTO{
		ID: updated.ID, Fio: updated.Fio, Phone: updated.Phone, Login: updated.Login,
		RoleID: updated.RoleID, RoleName: updated.RoleName,
	}, nil
}

func (r *userRepository) GetUsersByRole(ctx context.Context, roleName string) ([]dto.ShortUserDTO, error) {
	query := `
		SELECT u.id, u.fio FROM users u
		JOIN user_roles ur ON u.role_id = ur.id
		WHERE ur.name = $1
		ORDER BY u.fio`
	rows, err := r.storage.Query(ctx, query, roleName)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки пользователей по роли: %w", err)
	}
	defer rows.Close()

	users := make([]dto.ShortUserDTO, 0)
	for rows.Next() {
		var u dto.ShortUserDTO
		if err := rows.Scan(&u.ID, &u.Fio); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
