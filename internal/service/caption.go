package service

import (
	"strings"
	"unicode"
)

const captionHashtagCount = 3

// FormatCaptionHashtags 将标题末尾 3 个词转为 hashtag，追加在空行之后
// 末尾可用词不足 3 个时返回 false，由调用方降级
func FormatCaptionHashtags(raw string) (string, bool) {
	fields := strings.Fields(raw)

	tags := make([]string, 0, captionHashtagCount)
	cut := len(fields)
	for i := len(fields) - 1; i >= 0 && len(tags) < captionHashtagCount; i-- {
		cut = i
		tag := sanitizeHashtag(fields[i])
		if tag == "" {
			// 纯标点 (如 "-" 或 "#") 跳过
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) < captionHashtagCount {
		return "", false
	}

	// 倒序收集，恢复原顺序
	for i, j := 0, len(tags)-1; i < j; i, j = i+1, j-1 {
		tags[i], tags[j] = tags[j], tags[i]
	}

	body := bodyBefore(raw, cut)
	hashtags := "#" + strings.Join(tags, " #")
	if body == "" {
		return hashtags, true
	}
	return body + "\n\n" + hashtags, true
}

// FallbackCaption 标题不可用时，以文案拼接代替 (不带 hashtag)
func FallbackCaption(contents []string) string {
	return strings.Join(contents, " ")
}

// sanitizeHashtag 只保留字母、数字和下划线，"co-founder" -> "cofounder"
func sanitizeHashtag(word string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, word)
}

// bodyBefore 返回第 n 个空白分隔词之前的原文 (保留原有换行)，右侧去空白
func bodyBefore(raw string, n int) string {
	idx := 0
	rest := raw
	for i := 0; i < n; i++ {
		trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
		idx += len(rest) - len(trimmed)
		end := strings.IndexFunc(trimmed, unicode.IsSpace)
		if end < 0 {
			end = len(trimmed)
		}
		idx += end
		rest = trimmed[end:]
	}
	return strings.TrimRightFunc(raw[:idx], unicode.IsSpace)
}
