package model

import "strings"

// 名前からURL用slugを作る。英数字以外はハイフンに落とす。
func Slugify(name string) string {
	var b strings.Builder
	prevDash := true // 先頭ハイフン抑止

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
