package service

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ==================== Gemini SDK 文本后端 ====================

// SDKTextModel 基于 generative-ai-go 的文本模型
type SDKTextModel struct {
	client *genai.Client
	model  string
}

// NewSDKTextModel 创建 SDK 客户端，进程退出前调用 Close
func NewSDKTextModel(ctx context.Context, apiKey, modelName string, opts ...option.ClientOption) (*SDKTextModel, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini sdk init failed: %w", err)
	}
	return &SDKTextModel{client: client, model: modelName}, nil
}

func (m *SDKTextModel) ModelName() string { return m.model }

func (m *SDKTextModel) Close() error {
	return m.client.Close()
}

func (m *SDKTextModel) GenerateJSON(ctx context.Context, prompt string, schema *Schema, out interface{}) (*Usage, error) {
	gm := m.client.GenerativeModel(m.model)
	gm.ResponseMIMEType = "application/json"
	gm.ResponseSchema = toGenaiSchema(schema)

	resp, err := gm.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini sdk generate failed: %w", err)
	}

	usage := &Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return usage, fmt.Errorf("gemini returned no candidates")
	}

	var raw string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw = string(txt)
			break
		}
	}
	if raw == "" {
		return usage, fmt.Errorf("gemini returned no text")
	}

	if err := decodeModelJSON(raw, out); err != nil {
		return usage, fmt.Errorf("decode model output: %w", err)
	}
	return usage, nil
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:     toGenaiType(s.Type),
		Items:    toGenaiSchema(s.Items),
		Required: s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func toGenaiType(t SchemaType) genai.Type {
	switch t {
	case SchemaString:
		return genai.TypeString
	case SchemaArray:
		return genai.TypeArray
	case SchemaObject:
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
