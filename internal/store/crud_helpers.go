// crud_helpers.go — BaseStore 上的通用目录表操作。
//
// skills / mcp_servers / agent_presets 三张目录表共享同一套
// 按主键删除 + 启停的形态, 收敛在这里避免逐表复制。
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/multi-agent/agent-console/pkg/errors"
)

// deleteByKey 按主键删除单条记录。键不存在视为 ErrNotFound。
func (b BaseStore) deleteByKey(ctx context.Context, table, keyCol, keyVal string) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{keyCol}.Sanitize())
	tag, err := b.pool.Exec(ctx, sql, keyVal)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "store.deleteByKey", keyVal)
	}
	return nil
}

// deleteBatchByKeys 按主键批量删除, 返回实际删除条数。
// 不存在的键静默跳过, 批量操作不因单键缺失失败。
func (b BaseStore) deleteBatchByKeys(ctx context.Context, table, keyCol string, keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = ANY($1::text[])",
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{keyCol}.Sanitize())
	tag, err := b.pool.Exec(ctx, sql, keys)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// setEnabledByKey 启用/禁用目录条目并记录操作者。
func (b BaseStore) setEnabledByKey(ctx context.Context, table, keyCol, keyVal, updatedBy string, enabled bool) error {
	sql := fmt.Sprintf("UPDATE %s SET enabled = $1, updated_by = $2, updated_at = NOW() WHERE %s = $3",
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{keyCol}.Sanitize())
	tag, err := b.pool.Exec(ctx, sql, enabled, updatedBy, keyVal)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "store.setEnabledByKey", keyVal)
	}
	return nil
}
