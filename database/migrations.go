/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// MigrationManager creates, tracks and resets the schema of the registered
// models.
type MigrationManager struct {
	db       *bun.DB
	logger   Logger
	config   DataMigrateConfig
	registry ModelRegistry
	fks      *ForeignKeyManager
}

// Migration represents an applied migration record stored in the database.
type Migration struct {
	Version     string    `bun:"version,pk"`
	Name        string    `bun:"name"`
	AppliedAt   time.Time `bun:"applied_at"`
	Description string    `bun:"description"`
}

// MigrationFunc is a migration step executed within a transaction.
type MigrationFunc func(ctx context.Context, db bun.IDB) error

// MigrationItem describes a single migration version.
type MigrationItem struct {
	Version     string
	Name        string
	Description string
	Up          MigrationFunc
}

// NewMigrationManager constructs a MigrationManager for the models in registry.
// fks may be nil.
func NewMigrationManager(db *bun.DB, logger Logger, cfg DataMigrateConfig, registry ModelRegistry, fks *ForeignKeyManager) *MigrationManager {
	if logger == nil {
		logger = NopLogger{}
	}
	if fks == nil {
		fks = NewForeignKeyManager(logger)
	}
	return &MigrationManager{
		db:       db,
		logger:   logger,
		config:   cfg,
		registry: registry,
		fks:      fks,
	}
}

// RunMigrations creates the migration tracking table if needed and executes
// pending migrations in ascending version order.
func (mm *MigrationManager) RunMigrations(ctx context.Context) error {
	if mm.db == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := mm.validateForeignKeys(); err != nil {
		return err
	}
	if err := mm.createMigrationTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations := mm.getAllMigrations()
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	for _, migration := range migrations {
		if err := mm.runMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}

	mm.logger.Info("Database migrations completed!")
	return nil
}

// ResetSchema drops every registered table and creates it again in one
// transaction. Children are dropped before their parents.
func (mm *MigrationManager) ResetSchema(ctx context.Context) error {
	if mm.db == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := mm.validateForeignKeys(); err != nil {
		return err
	}
	return mm.inTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if err := mm.dropBaseTables(ctx, tx); err != nil {
			return err
		}
		return mm.createBaseTables(ctx, tx)
	})
}

func (mm *MigrationManager) validateForeignKeys() error {
	if !mm.config.EnableForeignKey {
		return nil
	}
	errs := mm.fks.ValidateConstraints()
	for _, err := range errs {
		mm.logger.Debug("Foreign key constraint validation failed", "error", err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("foreign key constraint validation failed, %d errors in total", len(errs))
	}
	return nil
}

func (mm *MigrationManager) createMigrationTable(ctx context.Context) error {
	_, err := mm.db.NewCreateTable().
		Model((*Migration)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (mm *MigrationManager) getAllMigrations() []MigrationItem {
	return []MigrationItem{
		{
			Version:     "001",
			Name:        "create_base_tables",
			Description: "Create base table structure",
			Up:          mm.createBaseTables,
		},
	}
}

func (mm *MigrationManager) runMigration(ctx context.Context, migration MigrationItem) error {
	exists, err := mm.db.NewSelect().
		Model((*Migration)(nil)).
		Where("version = ?", migration.Version).
		Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = mm.inTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		if err := migration.Up(ctx, tx); err != nil {
			return err
		}
		_, err := tx.NewInsert().
			Model(&Migration{
				Version:     migration.Version,
				Name:        migration.Name,
				AppliedAt:   time.Now(),
				Description: migration.Description,
			}).
			Exec(ctx)
		return err
	})
	if err != nil {
		return err
	}
	mm.logger.Info("Migration executed successfully", "version", migration.Version, "name", migration.Name)
	return nil
}

func (mm *MigrationManager) inTx(ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error {
	tx, err := mm.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	var committed bool
	defer func(tx bun.Tx) {
		if !committed {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				mm.logger.Error("Failed to rollback transaction", "error", rollbackErr)
			}
		}
	}(tx)

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (mm *MigrationManager) createBaseTables(ctx context.Context, db bun.IDB) error {
	for _, model := range ModelInstances(mm.registry) {
		query := db.NewCreateTable().
			Model(model).
			IfNotExists()
		if mm.config.EnableForeignKey {
			table, err := resolveTableName(model)
			if err != nil {
				return fmt.Errorf("failed to create table %s: %w", getModelName(model), err)
			}
			for _, fk := range mm.fks.GetConstraintsByTable(table) {
				query = query.ForeignKey(fk.Clause())
				mm.logger.Debug("Foreign key constraint attached", "constraint", fk.GenerateConstraintName())
			}
		}
		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table %s: %w", getModelName(model), err)
		}
	}
	return nil
}

func (mm *MigrationManager) dropBaseTables(ctx context.Context, db bun.IDB) error {
	models := ModelInstances(mm.registry)
	for i := len(models) - 1; i >= 0; i-- {
		_, err := db.NewDropTable().
			Model(models[i]).
			IfExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to drop table %s: %w", getModelName(models[i]), err)
		}
	}
	return nil
}

// GetAppliedMigrations returns migration records ordered by version.
func (mm *MigrationManager) GetAppliedMigrations(ctx context.Context) ([]Migration, error) {
	var migrations []Migration
	err := mm.db.NewSelect().
		Model(&migrations).
		Order("version ASC").
		Scan(ctx)
	return migrations, err
}

func getModelName(model interface{}) string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

func resolveTableName(model interface{}) (string, error) {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Type.Name() == "BaseModel" && strings.Contains(f.Type.PkgPath(), "uptrace/bun") {
			tag := f.Tag.Get("bun")
			for _, part := range strings.Split(tag, ",") {
				part = strings.TrimSpace(part)
				if strings.HasPrefix(part, "table:") {
					return strings.TrimPrefix(part, "table:"), nil
				}
			}
		}
	}
	return "", fmt.Errorf("missing table tag on bun.BaseModel")
}
