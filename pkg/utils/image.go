package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DataURI 内联图片: data:<mime>;base64,<payload>
type DataURI struct {
	MimeType string
	Data     []byte
}

// BuildDataURI 由 MIME 类型与已编码的 base64 数据拼接 data URI
func BuildDataURI(mimeType, base64Data string) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64Data
}

// ParseDataURI 解析 base64 形式的 data URI
func ParseDataURI(uri string) (*DataURI, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data uri")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data uri missing payload")
	}

	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return nil, fmt.Errorf("data uri is not base64 encoded")
	}
	if mimeType == "" {
		return nil, fmt.Errorf("data uri missing media type")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("base64 decode failed: %w", err)
	}

	return &DataURI{MimeType: mimeType, Data: data}, nil
}

// ExtensionForMIME 下载文件名使用的扩展名
func ExtensionForMIME(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
