package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"gowms/config"
	"gowms/internal/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema: %v", err)
	}

	cfg := config.LoadConfig()

	verbose := flag.Bool("v", false, "mostra o log do goose")
	flag.Parse()

	if _, err := database.NewTables(cfg.TablePrefix); err != nil {
		log.Fatalf("goose: %v", err)
	}
	// Os scripts usam ${DB_TABLE_PREFIX} com ENVSUB.
	if err := os.Setenv("DB_TABLE_PREFIX", cfg.TablePrefix); err != nil {
		log.Fatalf("goose: falha ao exportar DB_TABLE_PREFIX: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.ConnectionString(), database.PoolOptions{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Fatalf("goose: falha ao conectar ao DB: %v\n", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: falha ao fechar o DB: %v\n", err)
		}
	}()

	goose.SetBaseFS(database.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("goose: %v", err)
	}
	if !*verbose {
		goose.SetLogger(goose.NopLogger())
	}
	// Tabela de versões própria por prefixo, para dois WMS no mesmo banco.
	goose.SetTableName(cfg.TablePrefix + "_goose_db_version")

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	command := arguments[0]
	var args []string
	if len(arguments) > 1 {
		args = arguments[1:]
	}

	if err := goose.Run(command, db.DB, database.MigrationsDir, args...); err != nil {
		log.Fatalf("goose %v: %v", command, err)
	}

	fmt.Printf("goose %s success\n", command)
}
