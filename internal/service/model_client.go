package service

import (
	"context"
	"encoding/json"
	"strings"
)

// ==================== 模型协作接口 ====================

// TextModel 结构化文本生成
type TextModel interface {
	// GenerateJSON 按 schema 请求 JSON 输出并解码到 out
	GenerateJSON(ctx context.Context, prompt string, schema *Schema, out interface{}) (*Usage, error)
	ModelName() string
}

// ImageModel 图片生成，返回 data URI
type ImageModel interface {
	GenerateImage(ctx context.Context, prompt string) (string, *Usage, error)
	ModelName() string
}

// Usage 单次调用 token 用量
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// ==================== 输出结构 ====================

// SchemaType 与 Gemini OpenAPI 子集一致
type SchemaType string

const (
	SchemaString SchemaType = "STRING"
	SchemaArray  SchemaType = "ARRAY"
	SchemaObject SchemaType = "OBJECT"
)

// Schema 结构化输出约束，REST 与 SDK 两种后端共用
type Schema struct {
	Type       SchemaType         `json:"type"`
	Items      *Schema            `json:"items,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

var contentOptionsSchema = &Schema{
	Type: SchemaObject,
	Properties: map[string]*Schema{
		"contentOptions": {Type: SchemaArray, Items: &Schema{Type: SchemaString}},
	},
	Required: []string{"contentOptions"},
}

var captionSchema = &Schema{
	Type: SchemaObject,
	Properties: map[string]*Schema{
		"caption": {Type: SchemaString},
	},
	Required: []string{"caption"},
}

type contentOptionsOutput struct {
	ContentOptions []string `json:"contentOptions"`
}

type captionOutput struct {
	Caption string `json:"caption"`
}

// decodeModelJSON 兼容模型偶尔包裹的 ```json 代码块
func decodeModelJSON(text string, out interface{}) error {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return json.Unmarshal([]byte(strings.TrimSpace(text)), out)
}
