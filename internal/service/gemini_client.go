package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"carousel_studio_v1/pkg/utils"
)

// ==================== Gemini REST ====================

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
	GenerationConfig map[string]interface{} `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
	} `json:"usageMetadata"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newGeminiRequest(prompt string, cfg map[string]interface{}) *geminiRequest {
	req := &geminiRequest{GenerationConfig: cfg}
	req.Contents = append(req.Contents, struct {
		Parts []geminiPart `json:"parts"`
	}{Parts: []geminiPart{{Text: prompt}}})
	return req
}

func (r *geminiResponse) usage() *Usage {
	if r.UsageMetadata == nil {
		return &Usage{}
	}
	return &Usage{
		InputTokens:  r.UsageMetadata.PromptTokenCount,
		OutputTokens: r.UsageMetadata.CandidatesTokenCount,
	}
}

// GeminiClient Gemini generateContent 接口
type GeminiClient struct {
	client *resty.Client
	apiKey string
}

// NewGeminiClient client 的 BaseURL 应指向 .../v1beta
func NewGeminiClient(client *resty.Client, apiKey string) *GeminiClient {
	return &GeminiClient{client: client, apiKey: apiKey}
}

func (c *GeminiClient) generate(ctx context.Context, modelName string, req *geminiRequest) (*geminiResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	var result geminiResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetPathParam("model", modelName).
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post("/models/{model}:generateContent")
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	if resp.IsError() {
		if result.Error != nil {
			return nil, fmt.Errorf("gemini api error [%d]: %s", resp.StatusCode(), result.Error.Message)
		}
		return nil, fmt.Errorf("gemini api error [%d]: %s", resp.StatusCode(), resp.String())
	}
	if result.Error != nil {
		return nil, fmt.Errorf("gemini api error: %s", result.Error.Message)
	}

	return &result, nil
}

// ==================== 文本模型 ====================

type restTextModel struct {
	gemini *GeminiClient
	model  string
}

// NewRESTTextModel REST 后端文本模型
func NewRESTTextModel(gemini *GeminiClient, modelName string) TextModel {
	return &restTextModel{gemini: gemini, model: modelName}
}

func (m *restTextModel) ModelName() string { return m.model }

func (m *restTextModel) GenerateJSON(ctx context.Context, prompt string, schema *Schema, out interface{}) (*Usage, error) {
	req := newGeminiRequest(prompt, map[string]interface{}{
		"responseMimeType": "application/json",
		"responseSchema":   schema,
	})

	resp, err := m.gemini.generate(ctx, m.model, req)
	if err != nil {
		return nil, err
	}

	var text string
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				text = part.Text
				break
			}
		}
		if text != "" {
			break
		}
	}
	if text == "" {
		return resp.usage(), fmt.Errorf("gemini returned no text")
	}

	if err := decodeModelJSON(text, out); err != nil {
		return resp.usage(), fmt.Errorf("decode model output: %w", err)
	}
	return resp.usage(), nil
}

// ==================== 图片模型 ====================

type restImageModel struct {
	gemini *GeminiClient
	model  string
}

// NewRESTImageModel 多模态图片生成 (TEXT + IMAGE)
func NewRESTImageModel(gemini *GeminiClient, modelName string) ImageModel {
	return &restImageModel{gemini: gemini, model: modelName}
}

func (m *restImageModel) ModelName() string { return m.model }

func (m *restImageModel) GenerateImage(ctx context.Context, prompt string) (string, *Usage, error) {
	req := newGeminiRequest(prompt, map[string]interface{}{
		"responseModalities": []string{"TEXT", "IMAGE"},
	})

	resp, err := m.gemini.generate(ctx, m.model, req)
	if err != nil {
		return "", nil, err
	}

	// 取第一个内联图片
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return utils.BuildDataURI(part.InlineData.MimeType, part.InlineData.Data), resp.usage(), nil
			}
		}
	}

	return "", resp.usage(), fmt.Errorf("no image data in gemini response")
}
