package main

import (
	"context"
	"flag"
	"log"

	"github.com/AnimeshnikLeon/climate-app/pkg/config"
	"github.com/AnimeshnikLeon/climate-app/pkg/database/postgresql"
	"github.com/AnimeshnikLeon/climate-app/seeders"
)

func main() {
	runDictionaries := flag.Bool("dictionaries", false, "Наполнить справочники (роли, статусы, типы оборудования)")
	runUsers := flag.Bool("users", false, "Создать стартовых пользователей")
	runAll := flag.Bool("all", false, "Запустить все сидеры")
	flag.Parse()

	if !*runDictionaries && !*runUsers && !*runAll {
		log.Println("Не выбран ни один сидер для запуска.")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	ctx := context.Background()

	if err := postgresql.Migrate(db); err != nil {
		log.Fatalf("ошибка применения миграций: %v", err)
	}

	if *runAll || *runDictionaries {
		if err := seeders.SeedDictionaries(ctx, db); err != nil {
			log.Fatalf("ошибка наполнения справочников: %v", err)
		}
	}
	if *runAll || *runUsers {
		if err := seeders.SeedUsers(ctx, db); err != nil {
			log.Fatalf("ошибка создания пользователей: %v", err)
		}
	}

	log.Println("Сидеры выполнены.")
}
