// Package util 提供通用工具函数: 环境变量解析、反射式配置加载与
// 零散的数值/SQL 小工具。
package util

import (
	"os"
	"reflect"
	"strconv"
	"strings"
)

// EscapeLike 转义 SQL LIKE 模式中的特殊字符 (%, _, \)。
// 配合查询侧的 ESCAPE '\' 使用。
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ClampInt 将值限制在 [lo, hi] 范围内。
func ClampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// EnvStr 读取字符串环境变量，为空时返回 def。
func EnvStr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// EnvInt 读取整型环境变量。解析失败返回 def，结果不小于 floor。
func EnvInt(name string, def, floor int) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		v = def
	}
	return max(v, floor)
}

// EnvFloat 读取浮点环境变量。解析失败返回 def，结果不小于 floor。
func EnvFloat(name string, def, floor float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(name), 64)
	if err != nil {
		v = def
	}
	return max(v, floor)
}

// EnvBool 读取布尔环境变量。接受 1/true/yes/on 与 0/false/no/off,
// 其余 (含未设置) 返回 def。
func EnvBool(name string, def bool) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// LoadFromEnv 按 struct tag 从环境变量填充配置结构体。
//
//	`env:"VAR_NAME" default:"value" min:"N"`
//
// 无 env tag 的字段不触碰。支持 string / int / float64 / bool。
// ptr 非法 (nil 或非指针) 时静默返回, 调用方拿到零值配置。
func LoadFromEnv(ptr any) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return
	}
	v := rv.Elem()

	for i := 0; i < v.NumField(); i++ {
		tag := v.Type().Field(i).Tag
		name := tag.Get("env")
		if name == "" {
			continue
		}
		def, floor := tag.Get("default"), tag.Get("min")

		switch f := v.Field(i); f.Kind() {
		case reflect.String:
			f.SetString(EnvStr(name, def))
		case reflect.Int:
			d, _ := strconv.Atoi(def)
			m, _ := strconv.Atoi(floor)
			f.SetInt(int64(EnvInt(name, d, m)))
		case reflect.Float64:
			d, _ := strconv.ParseFloat(def, 64)
			m, _ := strconv.ParseFloat(floor, 64)
			f.SetFloat(EnvFloat(name, d, m))
		case reflect.Bool:
			f.SetBool(EnvBool(name, def == "true" || def == "1"))
		}
	}
}
