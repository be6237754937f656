// migrator.go — 启动时的文件式 SQL 迁移。
//
// migrations 目录下的 .sql 文件按文件名升序执行, 已执行的版本记录在
// schema_version 表里。每个迁移在独立事务中运行, 失败整体回滚。
package database

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/multi-agent/agent-console/pkg/errors"
	"github.com/multi-agent/agent-console/pkg/logger"
)

const versionTable = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ DEFAULT NOW()
	)`

// Migrate 应用 dir 下所有未执行的迁移。目录不存在视为无迁移。
func Migrate(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	if pool == nil {
		return apperrors.New("database.Migrate", "pool is required")
	}
	if _, err := pool.Exec(ctx, versionTable); err != nil {
		return apperrors.Wrap(err, "database.Migrate", "ensure schema_version")
	}

	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}
	applied, err := appliedVersions(ctx, pool)
	if err != nil {
		return err
	}

	ran := 0
	for _, name := range files {
		if applied[name] {
			continue
		}
		if err := runMigration(ctx, pool, filepath.Join(dir, name)); err != nil {
			return err
		}
		logger.Info("migration applied", logger.FieldPath, name)
		ran++
	}
	if ran == 0 {
		logger.Debug("schema up to date", logger.FieldCount, len(files))
	}
	return nil
}

// migrationFiles 列出 dir 下的 .sql 文件, 按文件名升序。
func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("migrations directory missing, skipping", logger.FieldPath, dir)
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "database.Migrate", "read migrations dir")
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)
	return files, nil
}

func appliedVersions(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT version FROM schema_version`)
	if err != nil {
		return nil, apperrors.Wrap(err, "database.Migrate", "query schema_version")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, apperrors.Wrap(err, "database.Migrate", "scan schema_version")
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// runMigration 在单个事务中执行迁移脚本并登记版本。
func runMigration(ctx context.Context, pool *pgxpool.Pool, path string) error {
	name := filepath.Base(path)
	sqlBytes, err := os.ReadFile(path)
	if err != nil {
		return apperrors.Wrapf(err, "database.Migrate", "read %s", name)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return apperrors.Wrapf(err, "database.Migrate", "begin %s", name)
	}
	// commit 成功后的 rollback 是 no-op
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		return apperrors.Wrapf(err, "database.Migrate", "exec %s", name)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_version (version) VALUES ($1)`, name); err != nil {
		return apperrors.Wrapf(err, "database.Migrate", "record %s", name)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.Wrapf(err, "database.Migrate", "commit %s", name)
	}
	return nil
}
