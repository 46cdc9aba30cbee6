package tiptap

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// getAttrString безопасно извлекает строковый атрибут из map.
func getAttrString(attrs map[string]any, key string) (string, bool) {
	if attrs == nil {
		return "", false
	}
	str, ok := attrs[key].(string)
	return str, ok
}

// getAttrStringPtr возвращает nil, если атрибут отсутствует или не является строкой.
func getAttrStringPtr(attrs map[string]any, key string) *string {
	str, ok := getAttrString(attrs, key)
	if !ok {
		return nil
	}
	return &str
}

// getAttrInt безопасно извлекает целочисленный атрибут из map.
// Числа могут прийти как float64, json.Number или строка вида "320" / "16px".
func getAttrInt(attrs map[string]any, key string) (int, bool) {
	if attrs == nil {
		return 0, false
	}
	switch v := attrs[key].(type) {
	case float64:
		return floatToInt(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px"))
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	}
	return 0, false
}

// getAttrPositiveInt возвращает nil для отсутствующих, нечисловых и неположительных значений.
func getAttrPositiveInt(attrs map[string]any, key string) *int {
	i, ok := getAttrInt(attrs, key)
	if !ok || i <= 0 {
		return nil
	}
	return &i
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(math.Round(f)), true
}

func childPath(parent string, i int) string {
	return parent + ".content[" + strconv.Itoa(i) + "]"
}
