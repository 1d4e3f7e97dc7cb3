// Package models holds the GORM persistence models. Each model maps one
// table and converts to and from its domain type with ToDomain/FromDomain.
// PostgreSQL schema changes go through the SQL files under migrations/;
// SQLite databases are created with AutoMigrate(All()...).
package models
