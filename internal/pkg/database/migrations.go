package database

import "embed"

// Migrations contém os scripts goose. Eles usam ENVSUB para o prefixo das tabelas
// (${DB_TABLE_PREFIX}), por isso cmd/migrate exporta a variável antes de rodar.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir é o diretório dentro de Migrations.
const MigrationsDir = "migrations"
