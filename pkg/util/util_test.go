// util_test.go — env 读取与 LoadFromEnv 反射加载的行为验证。
package util

import (
	"testing"
)

func TestEnvIntDefaults(t *testing.T) {
	t.Setenv("UT_INT_EMPTY", "")
	if got := EnvInt("UT_INT_EMPTY", 7, 0); got != 7 {
		t.Errorf("empty env: got %d, want 7", got)
	}

	t.Setenv("UT_INT_BAD", "abc")
	if got := EnvInt("UT_INT_BAD", 7, 0); got != 7 {
		t.Errorf("invalid env: got %d, want 7", got)
	}

	t.Setenv("UT_INT_LOW", "-3")
	if got := EnvInt("UT_INT_LOW", 7, 1); got != 1 {
		t.Errorf("below min: got %d, want 1", got)
	}
}

func TestEnvBoolVariants(t *testing.T) {
	cases := []struct {
		raw  string
		def  bool
		want bool
	}{
		{"1", false, true},
		{"on", false, true},
		{"Yes", false, true},
		{"0", true, false},
		{"off", true, false},
		{"garbage", true, true},
		{"", false, false},
	}
	for _, c := range cases {
		t.Setenv("UT_BOOL", c.raw)
		if got := EnvBool("UT_BOOL", c.def); got != c.want {
			t.Errorf("EnvBool(%q, %v) = %v, want %v", c.raw, c.def, got, c.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(5, 1, 10); got != 5 {
		t.Errorf("in range: got %d", got)
	}
	if got := ClampInt(-1, 1, 10); got != 1 {
		t.Errorf("below lo: got %d", got)
	}
	if got := ClampInt(99, 1, 10); got != 10 {
		t.Errorf("above hi: got %d", got)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := EscapeLike(`a%b_c\d`); got != `a\%b\_c\\d` {
		t.Errorf("EscapeLike = %q", got)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "x", "y"); got != "x" {
		t.Errorf("FirstNonEmpty = %q, want x", got)
	}
	if got := FirstNonEmpty("", "  "); got != "" {
		t.Errorf("all blank: got %q, want empty", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 10); got != "hello" {
		t.Errorf("short string: got %q", got)
	}
	if got := TruncateRunes("hello world", 5); got != "hello..." {
		t.Errorf("truncated: got %q", got)
	}
	if got := TruncateRunes("会话引导注入", 2); got != "会话..." {
		t.Errorf("multibyte: got %q", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	type cfg struct {
		Name    string  `env:"UT_CFG_NAME" default:"console"`
		Port    int     `env:"UT_CFG_PORT" default:"8080" min:"1"`
		Ratio   float64 `env:"UT_CFG_RATIO" default:"0.5" min:"0"`
		Enabled bool    `env:"UT_CFG_ENABLED" default:"true"`
		Skipped string  // 无 env tag, 不应被触碰
	}

	t.Setenv("UT_CFG_NAME", "")
	t.Setenv("UT_CFG_PORT", "9000")
	t.Setenv("UT_CFG_RATIO", "")
	t.Setenv("UT_CFG_ENABLED", "off")

	var c cfg
	c.Skipped = "keep"
	LoadFromEnv(&c)

	if c.Name != "console" {
		t.Errorf("Name = %q, want default console", c.Name)
	}
	if c.Port != 9000 {
		t.Errorf("Port = %d, want 9000", c.Port)
	}
	if c.Ratio != 0.5 {
		t.Errorf("Ratio = %v, want 0.5", c.Ratio)
	}
	if c.Enabled {
		t.Error("Enabled = true, want false (env off)")
	}
	if c.Skipped != "keep" {
		t.Errorf("Skipped = %q, want keep", c.Skipped)
	}
}

func TestLoadFromEnvNilSafe(t *testing.T) {
	LoadFromEnv(nil)
	var p *struct{}
	LoadFromEnv(p) // nil pointer 也不应 panic
}
