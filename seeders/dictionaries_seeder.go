package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnimeshnikLeon/climate-app/internal/entities"
)

// SeedDictionaries наполняет справочники ролей, статусов и типов
// оборудования. Идемпотентно: повторный запуск ничего не ломает.
func SeedDictionaries(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение справочников...")

	roles := []string{
		entities.RoleManager,
		entities.RoleOperator,
		entities.RoleSpecialist,
		entities.RoleClient,
	}
	for _, role := range roles {
		if _, err := db.Exec(ctx,
			`INSERT INTO user_roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, role); err != nil {
			return fmt.Errorf("ошибка вставки роли «%s»: %w", role, err)
		}
	}
	log.Println("    - Роли готовы.")

	statuses := []struct {
		name    string
		isFinal bool
	}{
		{entities.StatusNew, false},
		{"В процессе ремонта", false},
		{"Ожидание запчастей", false},
		{"Готова к выдаче", true},
		{"Завершена", true},
	}
	for _, status := range statuses {
		if _, err := db.Exec(ctx,
			`INSERT INTO request_statuses (name, is_final) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			status.name, status.isFinal); err != nil {
			return fmt.Errorf("ошибка вставки статуса «%s»: %w", status.name, err)
		}
	}
	log.Println("    - Статусы заявок готовы.")

	equipmentTypes := []string{
		"Кондиционер",
		"Холодильник",
		"Морозильная камера",
		"Вентиляционная установка",
		"Тепловой насос",
	}
	for _, name := range equipmentTypes {
		if _, err := db.Exec(ctx,
			`INSERT INTO equipment_types (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("ошибка вставки типа оборудования «%s»: %w", name, err)
		}
	}
	log.Println("    - Типы оборудования готовы.")

	issueTypes := []string{
		"Не охлаждает",
		"Не включается",
		"Утечка хладагента",
		"Посторонний шум",
	}
	for _, name := range issueTypes {
		if _, err := db.Exec(ctx,
			`INSERT INTO issue_types (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("ошибка вставки типа неисправности «%s»: %w", name, err)
		}
	}
	log.Println("    - Типы неисправностей готовы.")

	return nil
}
