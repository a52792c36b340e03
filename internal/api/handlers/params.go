// internal/api/handlers/params.go
package handlers

import (
	"strings"

	"github.com/spf13/cast"
)

// decimal bỏ các số 0 ở đầu để cast không hiểu "012000" là số bát phân.
// Input type=number gửi nguyên các số 0 người dùng gõ vào.
func decimal(raw string) string {
	s := strings.TrimSpace(raw)
	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" && s != "" {
		trimmed = "0"
	}
	if sign == "+" {
		sign = ""
	}
	return sign + trimmed
}

func toInt(raw string) (int, error) {
	return cast.ToIntE(decimal(raw))
}

func toInt64(raw string) (int64, error) {
	return cast.ToInt64E(decimal(raw))
}
