package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnimeshnikLeon/climate-app/internal/entities"
	"github.com/AnimeshnikLeon/climate-app/pkg/utils"
)

// SeedUsers создаёт стартовых пользователей по одному на роль.
// Пароли временные, менеджер обязан сменить их после первого входа.
func SeedUsers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание стартовых пользователей...")

	users := []struct {
		fio      string
		phone    string
		login    string
		password string
		role     string
	}{
		{"Администратор Системы", "+79990000001", "manager", "manager-start-1", entities.RoleManager},
		{"Дежурный Оператор", "+79990000002", "operator", "operator-start-1", entities.RoleOperator},
		{"Мастер Участка", "+79990000003", "specialist", "specialist-start-1", entities.RoleSpecialist},
		{"Тестовый Заказчик", "+79990000004", "client", "client-start-1", entities.RoleClient},
	}

	for _, u := range users {
		var existingID uint64
		err := db.QueryRow(ctx, `SELECT id FROM users WHERE login = $1`, u.login).Scan(&existingID)
		if err == nil {
			log.Printf("    - Пользователь «%s» уже существует, пропускаем.", u.login)
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("ошибка проверки пользователя «%s»: %w", u.login, err)
		}

		var roleID uint64
		if err := db.QueryRow(ctx, `SELECT id FROM user_roles WHERE name = $1`, u.role).Scan(&roleID); err != nil {
			return fmt.Errorf("роль «%s» не найдена, сначала наполните справочники: %w", u.role, err)
		}

		hash, err := utils.HashPassword(u.password)
		if err != nil {
			return err
		}

		if _, err := db.Exec(ctx,
			`INSERT INTO users (fio, phone, login, password_hash, role_id) VALUES ($1, $2, $3, $4, $5)`,
			u.fio, u.phone, u.login, hash, roleID); err != nil {
			return fmt.Errorf("ошибка создания пользователя «%s»: %w", u.login, err)
		}
		log.Printf("    - Пользователь «%s» (%s) создан.", u.login, u.role)
	}

	return nil
}
