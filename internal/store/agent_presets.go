// agent_presets.go — Agent 预设 CRUD (表 agent_presets)。
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AgentPresetStore Agent 预设存储。
type AgentPresetStore struct{ BaseStore }

// NewAgentPresetStore 创建。
func NewAgentPresetStore(pool *pgxpool.Pool) *AgentPresetStore {
	return &AgentPresetStore{NewBaseStore(pool)}
}

const presetCols = `preset_key, name, model, system_prompt, max_turns,
	skill_keys, mcp_server_keys, enabled, updated_by, created_at, updated_at`

// Save 创建或更新 (UPSERT)。
func (s *AgentPresetStore) Save(ctx context.Context, p *AgentPreset) (*AgentPreset, error) {
	rows, err := s.pool.Query(ctx,
		`INSERT INTO agent_presets (preset_key, name, model, system_prompt, max_turns,
		   skill_keys, mcp_server_keys, enabled, updated_by, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8, $9, NOW())
		 ON CONFLICT (preset_key) DO UPDATE SET
		   name=EXCLUDED.name, model=EXCLUDED.model, system_prompt=EXCLUDED.system_prompt,
		   max_turns=EXCLUDED.max_turns, skill_keys=EXCLUDED.skill_keys,
		   mcp_server_keys=EXCLUDED.mcp_server_keys, enabled=EXCLUDED.enabled,
		   updated_by=EXCLUDED.updated_by, updated_at=NOW()
		 RETURNING `+presetCols,
		p.PresetKey, defaultStr(p.Name, p.PresetKey), p.Model, p.SystemPrompt, p.MaxTurns,
		mustMarshalJSON(emptySlice(p.SkillKeys)), mustMarshalJSON(emptySlice(p.MCPServerKeys)),
		p.Enabled, defaultStr(p.UpdatedBy, "system"))
	if err != nil {
		return nil, err
	}
	return collectOne[AgentPreset](rows)
}

// Get 按 preset_key 查询。
func (s *AgentPresetStore) Get(ctx context.Context, presetKey string) (*AgentPreset, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+presetCols+" FROM agent_presets WHERE preset_key = $1", presetKey)
	if err != nil {
		return nil, err
	}
	return collectOne[AgentPreset](rows)
}

// List 列表查询。
func (s *AgentPresetStore) List(ctx context.Context, keyword string, enabled *bool, limit int) ([]AgentPreset, error) {
	q := NewQueryBuilder().
		EqBool("enabled", enabled).
		KeywordLike(keyword, "preset_key", "name", "model")
	sql, params := q.Build("SELECT "+presetCols+" FROM agent_presets", "preset_key ASC", limit)
	rows, err := s.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, err
	}
	return collectRows[AgentPreset](rows)
}

// SetEnabled 启用/禁用。
func (s *AgentPresetStore) SetEnabled(ctx context.Context, presetKey string, enabled bool, updatedBy string) error {
	return s.setEnabledByKey(ctx, "agent_presets", "preset_key", presetKey, updatedBy, enabled)
}

// Delete 删除预设。
func (s *AgentPresetStore) Delete(ctx context.Context, presetKey string) error {
	return s.deleteByKey(ctx, "agent_presets", "preset_key", presetKey)
}

// DeleteBatch 批量删除。
func (s *AgentPresetStore) DeleteBatch(ctx context.Context, presetKeys []string) (int64, error) {
	return s.deleteBatchByKeys(ctx, "agent_presets", "preset_key", presetKeys)
}

// ========================================
// 内置预设
// ========================================

// DefaultPresets 初次启动时播种的内置预设。
var DefaultPresets = []AgentPreset{
	{
		PresetKey:    "general",
		Name:         "通用助手",
		SystemPrompt: "你是通用任务助手, 回答前先确认目标与约束。",
		MaxTurns:     10,
		Enabled:      true,
	},
	{
		PresetKey:    "analyst",
		Name:         "数据分析",
		SystemPrompt: "你是数据分析助手, 所有结论必须附带来源与验证步骤, 产出文件使用 output_file 上报。",
		MaxTurns:     20,
		Enabled:      true,
	},
}

// SeedDefaultPresets 幂等播种内置预设。
func SeedDefaultPresets(ctx context.Context, s *AgentPresetStore) (int, error) {
	count := 0
	for i := range DefaultPresets {
		preset := DefaultPresets[i]
		preset.UpdatedBy = "system"
		if _, err := s.Save(ctx, &preset); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
