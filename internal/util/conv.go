package util

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// ParseLeadingInt 解析字符串开头的整数，如 "4 weeks" -> 4
func ParseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ContainsString 判断切片中是否存在指定字符串
func ContainsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}

// UniqueStrings 去除空白项与重复项，保持原有顺序
func UniqueStrings(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// FlexInt 兼容数字和字符串两种写法的整数，如 10、"10"、"4 weeks"
// 小数按四舍五入取整
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*n = FlexInt(math.Round(num))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, ok := ParseLeadingInt(s); ok {
			*n = FlexInt(v)
			return nil
		}
	}

	return &json.UnmarshalTypeError{Value: "string", Type: reflect.TypeOf(0)}
}

func (n FlexInt) Int() int {
	return int(n)
}
