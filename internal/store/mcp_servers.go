// mcp_servers.go — MCP 服务器配置 CRUD (表 mcp_servers)。
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MCPServerStore MCP 服务器存储。
type MCPServerStore struct{ BaseStore }

// NewMCPServerStore 创建。
func NewMCPServerStore(pool *pgxpool.Pool) *MCPServerStore {
	return &MCPServerStore{NewBaseStore(pool)}
}

const mcpCols = `server_key, name, command, args, env, enabled, updated_by, created_at, updated_at`

// Save 创建或更新 (UPSERT)。
func (s *MCPServerStore) Save(ctx context.Context, server *MCPServer) (*MCPServer, error) {
	rows, err := s.pool.Query(ctx,
		`INSERT INTO mcp_servers (server_key, name, command, args, env, enabled, updated_by, updated_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6, $7, NOW())
		 ON CONFLICT (server_key) DO UPDATE SET
		   name=EXCLUDED.name, command=EXCLUDED.command, args=EXCLUDED.args,
		   env=EXCLUDED.env, enabled=EXCLUDED.enabled,
		   updated_by=EXCLUDED.updated_by, updated_at=NOW()
		 RETURNING `+mcpCols,
		server.ServerKey, defaultStr(server.Name, server.ServerKey), server.Command,
		mustMarshalJSON(emptySlice(server.Args)), mustMarshalJSON(server.Env),
		server.Enabled, defaultStr(server.UpdatedBy, "system"))
	if err != nil {
		return nil, err
	}
	return collectOne[MCPServer](rows)
}

// Get 按 server_key 查询。
func (s *MCPServerStore) Get(ctx context.Context, serverKey string) (*MCPServer, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+mcpCols+" FROM mcp_servers WHERE server_key = $1", serverKey)
	if err != nil {
		return nil, err
	}
	return collectOne[MCPServer](rows)
}

// List 列表查询。
func (s *MCPServerStore) List(ctx context.Context, keyword string, enabled *bool, limit int) ([]MCPServer, error) {
	q := NewQueryBuilder().
		EqBool("enabled", enabled).
		KeywordLike(keyword, "server_key", "name", "command")
	sql, params := q.Build("SELECT "+mcpCols+" FROM mcp_servers", "server_key ASC", limit)
	rows, err := s.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, err
	}
	return collectRows[MCPServer](rows)
}

// SetEnabled 启用/禁用。
func (s *MCPServerStore) SetEnabled(ctx context.Context, serverKey string, enabled bool, updatedBy string) error {
	return s.setEnabledByKey(ctx, "mcp_servers", "server_key", serverKey, updatedBy, enabled)
}

// Delete 删除服务器配置。
func (s *MCPServerStore) Delete(ctx context.Context, serverKey string) error {
	return s.deleteByKey(ctx, "mcp_servers", "server_key", serverKey)
}

// DeleteBatch 批量删除。
func (s *MCPServerStore) DeleteBatch(ctx context.Context, serverKeys []string) (int64, error) {
	return s.deleteBatchByKeys(ctx, "mcp_servers", "server_key", serverKeys)
}
