package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carousel_studio_v1/pkg/utils"
)

// newGeminiStub 模拟 generateContent 接口，handler 收到解析后的请求体
func newGeminiStub(t *testing.T, status int, respond func(model string, body map[string]interface{}) string) *GeminiClient {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("缺少 api key")
		}

		// /models/<model>:generateContent
		name := strings.TrimPrefix(r.URL.Path, "/models/")
		name = strings.TrimSuffix(name, ":generateContent")

		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respond(name, body))
	}))
	t.Cleanup(srv.Close)

	return NewGeminiClient(utils.NewModelClient(srv.URL, 5*time.Second, false), "test-key")
}

func TestRESTTextModel_GenerateJSON(t *testing.T) {
	var gotModel string
	var gotConfig map[string]interface{}

	client := newGeminiStub(t, http.StatusOK, func(model string, body map[string]interface{}) string {
		gotModel = model
		gotConfig, _ = body["generationConfig"].(map[string]interface{})
		return `{
			"candidates": [{"content": {"parts": [{"text": "{\"contentOptions\": [\"a\", \"b\", \"c\"]}"}]}}],
			"usageMetadata": {"promptTokenCount": 120, "candidatesTokenCount": 30}
		}`
	})

	m := NewRESTTextModel(client, "gemini-2.0-flash")

	var out contentOptionsOutput
	usage, err := m.GenerateJSON(context.Background(), "prompt", contentOptionsSchema, &out)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", gotModel)
	assert.Equal(t, "application/json", gotConfig["responseMimeType"])
	assert.NotNil(t, gotConfig["responseSchema"])
	assert.Equal(t, []string{"a", "b", "c"}, out.ContentOptions)
	assert.Equal(t, 120, usage.InputTokens)
	assert.Equal(t, 30, usage.OutputTokens)
}

func TestRESTTextModel_StripsCodeFence(t *testing.T) {
	client := newGeminiStub(t, http.StatusOK, func(string, map[string]interface{}) string {
		return `{"candidates": [{"content": {"parts": [{"text": "` + "```json\\n{\\\"caption\\\": \\\"hello\\\"}\\n```" + `"}]}}]}`
	})

	var out captionOutput
	_, err := NewRESTTextModel(client, "m").GenerateJSON(context.Background(), "p", captionSchema, &out)
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Caption)
}

func TestRESTTextModel_APIError(t *testing.T) {
	client := newGeminiStub(t, http.StatusTooManyRequests, func(string, map[string]interface{}) string {
		return `{"error": {"code": 429, "message": "quota exceeded"}}`
	})

	var out captionOutput
	_, err := NewRESTTextModel(client, "m").GenerateJSON(context.Background(), "p", captionSchema, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "429")
}

func TestRESTTextModel_NoText(t *testing.T) {
	client := newGeminiStub(t, http.StatusOK, func(string, map[string]interface{}) string {
		return `{"candidates": []}`
	})

	var out captionOutput
	_, err := NewRESTTextModel(client, "m").GenerateJSON(context.Background(), "p", captionSchema, &out)
	assert.Error(t, err)
}

func TestRESTImageModel_GenerateImage(t *testing.T) {
	var gotModalities []interface{}

	client := newGeminiStub(t, http.StatusOK, func(_ string, body map[string]interface{}) string {
		cfg, _ := body["generationConfig"].(map[string]interface{})
		gotModalities, _ = cfg["responseModalities"].([]interface{})
		return `{"candidates": [{"content": {"parts": [
			{"text": "Here is your image"},
			{"inlineData": {"mimeType": "image/png", "data": "aGVsbG8="}}
		]}}]}`
	})

	img, _, err := NewRESTImageModel(client, "img-model").GenerateImage(context.Background(), "draw")
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"TEXT", "IMAGE"}, gotModalities)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", img)
}

func TestRESTImageModel_NoImage(t *testing.T) {
	client := newGeminiStub(t, http.StatusOK, func(string, map[string]interface{}) string {
		return `{"candidates": [{"content": {"parts": [{"text": "sorry"}]}}]}`
	})

	_, _, err := NewRESTImageModel(client, "img-model").GenerateImage(context.Background(), "draw")
	assert.Error(t, err)
}

func TestGeminiClient_NoAPIKey(t *testing.T) {
	client := NewGeminiClient(utils.NewModelClient("http://127.0.0.1:1", time.Second, false), "")

	_, _, err := NewRESTImageModel(client, "m").GenerateImage(context.Background(), "p")
	assert.Error(t, err)
}

func TestToGenaiSchema(t *testing.T) {
	s := toGenaiSchema(contentOptionsSchema)

	require.NotNil(t, s)
	assert.Equal(t, []string{"contentOptions"}, s.Required)
	require.Contains(t, s.Properties, "contentOptions")
	assert.NotNil(t, s.Properties["contentOptions"].Items)
	assert.Nil(t, toGenaiSchema(nil))
}
