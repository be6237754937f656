// helpers_test.go — QueryBuilder + mustMarshalJSON 表驱动测试。
package store

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestQueryBuilderEq(t *testing.T) {
	t.Run("skips_empty", func(t *testing.T) {
		qb := NewQueryBuilder()
		qb.Eq("role", "")
		if clause := qb.WhereClause(); clause != "" {
			t.Errorf("expected empty WHERE, got %q", clause)
		}
	})

	t.Run("adds_condition", func(t *testing.T) {
		qb := NewQueryBuilder()
		qb.Eq("role", "assistant")
		clause := qb.WhereClause()
		if !strings.Contains(clause, "role = $1") {
			t.Errorf("expected 'role = $1' in WHERE, got %q", clause)
		}
		params := qb.Params()
		if len(params) != 1 || params[0] != "assistant" {
			t.Errorf("expected params [assistant], got %v", params)
		}
	})

	t.Run("multiple_conditions", func(t *testing.T) {
		qb := NewQueryBuilder()
		qb.Eq("session_id", "s1").Eq("role", "user")
		clause := qb.WhereClause()
		if !strings.Contains(clause, "session_id = $1") || !strings.Contains(clause, "role = $2") {
			t.Errorf("expected both conditions, got %q", clause)
		}
	})
}

func TestQueryBuilderEqBool(t *testing.T) {
	t.Run("nil_skipped", func(t *testing.T) {
		qb := NewQueryBuilder()
		qb.EqBool("enabled", nil)
		if clause := qb.WhereClause(); clause != "" {
			t.Errorf("expected empty WHERE, got %q", clause)
		}
	})

	t.Run("value_added", func(t *testing.T) {
		enabled := true
		qb := NewQueryBuilder()
		qb.EqBool("enabled", &enabled)
		if !strings.Contains(qb.WhereClause(), "enabled = $1") {
			t.Errorf("expected enabled condition, got %q", qb.WhereClause())
		}
		if params := qb.Params(); len(params) != 1 || params[0] != true {
			t.Errorf("params = %v", params)
		}
	})
}

func TestQueryBuilderKeywordLike(t *testing.T) {
	t.Run("ESCAPE_clause", func(t *testing.T) {
		qb := NewQueryBuilder()
		qb.KeywordLike("report", "name")
		if !strings.Contains(qb.WhereClause(), `ESCAPE E'\\'`) {
			t.Errorf("expected ESCAPE clause, got %q", qb.WhereClause())
		}
	})

	t.Run("escapes_percent", func(t *testing.T) {
		qb := NewQueryBuilder()
		qb.KeywordLike("100%", "name")
		params := qb.Params()
		if len(params) != 1 {
			t.Fatalf("expected 1 param, got %d", len(params))
		}
		if p := params[0].(string); !strings.Contains(p, `100\%`) {
			t.Errorf("expected escaped percent in param, got %q", p)
		}
	})

	t.Run("skips_empty_keyword", func(t *testing.T) {
		qb := NewQueryBuilder()
		qb.KeywordLike("", "name")
		if clause := qb.WhereClause(); clause != "" {
			t.Errorf("expected empty WHERE for empty keyword, got %q", clause)
		}
	})

	t.Run("multi_column", func(t *testing.T) {
		qb := NewQueryBuilder()
		qb.KeywordLike("report", "skill_key", "name")
		clause := qb.WhereClause()
		if !strings.Contains(clause, "LOWER(skill_key)") || !strings.Contains(clause, "LOWER(name)") {
			t.Errorf("expected both columns in LIKE, got %q", clause)
		}
		if !strings.Contains(clause, " OR ") {
			t.Errorf("expected OR between columns, got %q", clause)
		}
	})
}

func TestQueryBuilderBuild(t *testing.T) {
	t.Run("limit_clamped_zero", func(t *testing.T) {
		qb := NewQueryBuilder()
		sql, params := qb.Build("SELECT * FROM t", "", 0)
		if !strings.Contains(sql, "LIMIT $1") {
			t.Errorf("expected LIMIT clause, got %q", sql)
		}
		// limit=0 → clamp 到 1
		if params[0] != 1 {
			t.Errorf("expected limit=1, got %v", params[0])
		}
	})

	t.Run("limit_clamped_high", func(t *testing.T) {
		qb := NewQueryBuilder()
		_, params := qb.Build("SELECT * FROM t", "", 9999)
		if params[0] != 2000 {
			t.Errorf("expected limit=2000, got %v", params[0])
		}
	})

	t.Run("full_query", func(t *testing.T) {
		qb := NewQueryBuilder()
		qb.Eq("session_id", "s1")
		sql, params := qb.Build("SELECT * FROM messages", "seq ASC", 10)
		if !strings.Contains(sql, "WHERE session_id = $1") {
			t.Errorf("expected WHERE clause, got %q", sql)
		}
		if !strings.Contains(sql, "ORDER BY seq ASC") {
			t.Errorf("expected ORDER BY clause, got %q", sql)
		}
		if !strings.Contains(sql, "LIMIT $2") {
			t.Errorf("expected LIMIT $2, got %q", sql)
		}
		if len(params) != 2 || params[0] != "s1" || params[1] != 10 {
			t.Errorf("expected params [s1, 10], got %v", params)
		}
	})
}

func TestMustMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		wantJSON string
	}{
		{name: "normal_map", input: map[string]any{"key": "value", "n": 42}, wantJSON: `{"key":"value","n":42}`},
		{name: "nil_input", input: nil, wantJSON: `null`},
		{name: "string_slice", input: []string{"a", "b"}, wantJSON: `["a","b"]`},
		{name: "empty_map", input: map[string]any{}, wantJSON: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustMarshalJSON(tt.input)
			if !json.Valid(got) {
				t.Fatalf("mustMarshalJSON returned invalid JSON: %q", got)
			}
			var gotVal, wantVal any
			if err := json.Unmarshal(got, &gotVal); err != nil {
				t.Fatalf("unmarshal got: %v", err)
			}
			if err := json.Unmarshal([]byte(tt.wantJSON), &wantVal); err != nil {
				t.Fatalf("unmarshal want: %v", err)
			}
			gotRe, _ := json.Marshal(gotVal)
			wantRe, _ := json.Marshal(wantVal)
			if string(gotRe) != string(wantRe) {
				t.Errorf("mustMarshalJSON(%v) = %s, want %s", tt.input, got, tt.wantJSON)
			}
		})
	}
}

func TestMustMarshalJSON_Unmarshalable(t *testing.T) {
	ch := make(chan int)
	if got := mustMarshalJSON(ch); string(got) != "{}" {
		t.Errorf("mustMarshalJSON(chan) = %s, want {}", got)
	}
}

func TestEmptySlice(t *testing.T) {
	if got := emptySlice[string](nil); got == nil || len(got) != 0 {
		t.Errorf("nil must become empty slice, got %v", got)
	}
	src := []string{"a"}
	if got := emptySlice(src); len(got) != 1 {
		t.Errorf("non-nil must pass through, got %v", got)
	}
}
