package upstream

// 上游 JSON 字段名随版本漂移，这里把各字段的候选链显式化，
// 取第一个非零候选，优先级即入参顺序

// firstString 返回第一个非空字符串
func firstString(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// firstInt64 返回第一个非零数值
func firstInt64(candidates ...int64) int64 {
	for _, c := range candidates {
		if c != 0 {
			return c
		}
	}
	return 0
}

// looseBool 兼容上游把布尔写成 true/1/"1" 的情况
type looseBool bool

func (b *looseBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1", `"1"`, `"true"`:
		*b = true
	default:
		*b = false
	}
	return nil
}

// looseString 兼容上游在字符串与数值之间漂移的字段（如游标、ID）
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		*s = ""
		return nil
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		*s = looseString(raw[1 : len(raw)-1])
		return nil
	}
	*s = looseString(raw)
	return nil
}

func (s looseString) String() string {
	return string(s)
}
