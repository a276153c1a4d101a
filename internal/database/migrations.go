package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email VARCHAR(254) NOT NULL UNIQUE,
		username VARCHAR(150) NOT NULL UNIQUE,
		first_name VARCHAR(150) NOT NULL DEFAULT '',
		last_name VARCHAR(150) NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_login TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id SERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL UNIQUE,
		slug VARCHAR(200) NOT NULL UNIQUE,
		color VARCHAR(200) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS ingredients (
		id SERIAL PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		measurement_unit VARCHAR(200) NOT NULL,
		UNIQUE(name, measurement_unit)
	)`,
	`CREATE TABLE IF NOT EXISTS recipes (
		id SERIAL PRIMARY KEY,
		author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(200) NOT NULL,
		text TEXT NOT NULL,
		image VARCHAR(255) NOT NULL,
		cooking_time INTEGER NOT NULL CHECK (cooking_time >= 1),
		pub_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT recipes_author_id_name_key UNIQUE(author_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS recipe_tags (
		recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (recipe_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS recipe_ingredients (
		id SERIAL PRIMARY KEY,
		recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		ingredient_id INTEGER NOT NULL REFERENCES ingredients(id) ON DELETE RESTRICT,
		amount INTEGER NOT NULL CHECK (amount > 0),
		UNIQUE(recipe_id, ingredient_id)
	)`,
	`CREATE TABLE IF NOT EXISTS follows (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, author_id),
		CHECK (user_id <> author_id)
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		UNIQUE(user_id, recipe_id)
	)`,
	`CREATE TABLE IF NOT EXISTS shopping_list_entries (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		recipe_id INTEGER NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		UNIQUE(user_id, recipe_id)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email))`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_author_id ON recipes(author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_pub_date ON recipes(pub_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe_id ON recipe_ingredients(recipe_id)`,
	`CREATE INDEX IF NOT EXISTS idx_follows_author_id ON follows(author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_favorites_recipe_id ON favorites(recipe_id)`,
	`CREATE INDEX IF NOT EXISTS idx_shopping_list_entries_recipe_id ON shopping_list_entries(recipe_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ingredients_name ON ingredients(LOWER(name))`,
}

// Migrate creates the schema when it is missing and reports whether it had to.
// Every statement is idempotent, so running it against an up-to-date database is a no-op.
func Migrate(ctx context.Context, db *DB) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		"SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'shopping_list_entries')").Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check if tables exist: %w", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return false, fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit migration: %w", err)
	}
	return !exists, nil
}
