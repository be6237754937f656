// skills.go — 技能 CRUD (表 skills)。
package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SkillStore 技能存储。
type SkillStore struct{ BaseStore }

// NewSkillStore 创建。
func NewSkillStore(pool *pgxpool.Pool) *SkillStore {
	return &SkillStore{NewBaseStore(pool)}
}

const skillCols = `skill_key, name, description, path, enabled, updated_by, created_at, updated_at`

// Save 创建或更新 (UPSERT)。
func (s *SkillStore) Save(ctx context.Context, skill *Skill) (*Skill, error) {
	rows, err := s.pool.Query(ctx,
		`INSERT INTO skills (skill_key, name, description, path, enabled, updated_by, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 ON CONFLICT (skill_key) DO UPDATE SET
		   name=EXCLUDED.name, description=EXCLUDED.description, path=EXCLUDED.path,
		   enabled=EXCLUDED.enabled, updated_by=EXCLUDED.updated_by, updated_at=NOW()
		 RETURNING `+skillCols,
		skill.SkillKey, defaultStr(skill.Name, skill.SkillKey), skill.Description,
		skill.Path, skill.Enabled, defaultStr(skill.UpdatedBy, "system"))
	if err != nil {
		return nil, err
	}
	return collectOne[Skill](rows)
}

// Get 按 skill_key 查询。
func (s *SkillStore) Get(ctx context.Context, skillKey string) (*Skill, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+skillCols+" FROM skills WHERE skill_key = $1", skillKey)
	if err != nil {
		return nil, err
	}
	return collectOne[Skill](rows)
}

// List 列表查询, 支持关键词搜索与启用状态过滤。
func (s *SkillStore) List(ctx context.Context, keyword string, enabled *bool, limit int) ([]Skill, error) {
	q := NewQueryBuilder().
		EqBool("enabled", enabled).
		KeywordLike(keyword, "skill_key", "name", "description")
	sql, params := q.Build("SELECT "+skillCols+" FROM skills", "skill_key ASC", limit)
	rows, err := s.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, err
	}
	return collectRows[Skill](rows)
}

// SetEnabled 启用/禁用。
func (s *SkillStore) SetEnabled(ctx context.Context, skillKey string, enabled bool, updatedBy string) error {
	return s.setEnabledByKey(ctx, "skills", "skill_key", skillKey, updatedBy, enabled)
}

// Delete 删除技能。
func (s *SkillStore) Delete(ctx context.Context, skillKey string) error {
	return s.deleteByKey(ctx, "skills", "skill_key", skillKey)
}

// DeleteBatch 批量删除。
func (s *SkillStore) DeleteBatch(ctx context.Context, skillKeys []string) (int64, error) {
	return s.deleteBatchByKeys(ctx, "skills", "skill_key", skillKeys)
}
