package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carousel_studio_v1/internal/model"
	apperr "carousel_studio_v1/pkg/errors"
	"carousel_studio_v1/pkg/logger"
)

// ==================== Mock 实现 ====================

type mockTextModel struct {
	generateJSONFn func(ctx context.Context, prompt string, schema *Schema, out interface{}) (*Usage, error)
	calls          int32
}

func (m *mockTextModel) ModelName() string { return "mock-text" }

func (m *mockTextModel) GenerateJSON(ctx context.Context, prompt string, schema *Schema, out interface{}) (*Usage, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.generateJSONFn != nil {
		return m.generateJSONFn(ctx, prompt, schema, out)
	}
	return &Usage{}, nil
}

type mockImageModel struct {
	generateImageFn func(ctx context.Context, prompt string) (string, *Usage, error)
	calls           int32
}

func (m *mockImageModel) ModelName() string { return "mock-image" }

func (m *mockImageModel) GenerateImage(ctx context.Context, prompt string) (string, *Usage, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.generateImageFn != nil {
		return m.generateImageFn(ctx, prompt)
	}
	return "data:image/png;base64,aGVsbG8=", &Usage{}, nil
}

type mockRecorder struct {
	mu      sync.Mutex
	records []CallRecord
}

func (m *mockRecorder) Record(_ context.Context, rec CallRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
}

func (m *mockRecorder) count(callType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.records {
		if r.CallType == callType {
			n++
		}
	}
	return n
}

// textResponder 按 schema 区分文案与标题请求
func textResponder(contents []string, caption string, captionErr error) func(context.Context, string, *Schema, interface{}) (*Usage, error) {
	return func(_ context.Context, _ string, schema *Schema, out interface{}) (*Usage, error) {
		switch schema {
		case contentOptionsSchema:
			out.(*contentOptionsOutput).ContentOptions = contents
		case captionSchema:
			if captionErr != nil {
				return nil, captionErr
			}
			out.(*captionOutput).Caption = caption
		}
		return &Usage{InputTokens: 10, OutputTokens: 5}, nil
	}
}

func newTestCarouselService(text TextModel, image ImageModel, rec CallRecorder) *CarouselService {
	return NewCarouselService(text, image, NewPromptBuilder("", ""), rec, logger.Discard())
}

// ==================== GenerateText ====================

func TestCarouselService_GenerateText(t *testing.T) {
	text := &mockTextModel{generateJSONFn: textResponder(
		[]string{"  Hook one. Message. CTA.  ", "Hook two.", "Hook three."},
		"Build better sites today. webdev javascript frontend",
		nil,
	)}
	rec := &mockRecorder{}
	svc := newTestCarouselService(text, &mockImageModel{}, rec)

	res, err := svc.GenerateText(context.Background(), model.NicheWebDevelopment, "top 5 JS frameworks")
	require.NoError(t, err)

	assert.Equal(t, []string{"Hook one. Message. CTA.", "Hook two.", "Hook three."}, res.ContentOptions)
	assert.Equal(t, "Build better sites today.\n\n#webdev #javascript #frontend", res.OverallCaption)
	assert.Equal(t, 1, rec.count(model.AICallTypeText))
	assert.Equal(t, 1, rec.count(model.AICallTypeCaption))
}

func TestCarouselService_GenerateText_TooFewOptions(t *testing.T) {
	tests := []struct {
		name     string
		contents []string
	}{
		{"零条", nil},
		{"两条", []string{"a", "b"}},
		{"空白条目不计数", []string{"a", " ", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := &mockTextModel{generateJSONFn: textResponder(tt.contents, "x y z", nil)}
			svc := newTestCarouselService(text, &mockImageModel{}, nil)

			res, err := svc.GenerateText(context.Background(), model.NicheCEODiary, "")
			require.NoError(t, err)

			assert.Empty(t, res.ContentOptions)
			assert.NotNil(t, res.ContentOptions)
			assert.Equal(t, "", res.OverallCaption)
			// 不请求标题
			assert.Equal(t, int32(1), text.calls)
		})
	}
}

func TestCarouselService_GenerateText_KeepsFirstThree(t *testing.T) {
	text := &mockTextModel{generateJSONFn: textResponder([]string{"a", "b", "c", "d"}, "cap one two three", nil)}
	svc := newTestCarouselService(text, &mockImageModel{}, nil)

	res, err := svc.GenerateText(context.Background(), model.NicheAISolutions, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, res.ContentOptions)
}

func TestCarouselService_GenerateText_CaptionFallback(t *testing.T) {
	contents := []string{"a", "b", "c"}

	tests := []struct {
		name       string
		caption    string
		captionErr error
	}{
		{"标题为空", "", nil},
		{"可用词不足", "two words", nil},
		{"标题请求失败", "", errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := &mockTextModel{generateJSONFn: textResponder(contents, tt.caption, tt.captionErr)}
			svc := newTestCarouselService(text, &mockImageModel{}, nil)

			res, err := svc.GenerateText(context.Background(), model.NicheLeadGeneration, "")
			require.NoError(t, err)
			assert.Equal(t, "a b c", res.OverallCaption)
			assert.NotContains(t, res.OverallCaption, "#")
		})
	}
}

func TestCarouselService_GenerateText_UpstreamError(t *testing.T) {
	text := &mockTextModel{generateJSONFn: func(context.Context, string, *Schema, interface{}) (*Usage, error) {
		return nil, errors.New("quota exceeded")
	}}
	rec := &mockRecorder{}
	svc := newTestCarouselService(text, &mockImageModel{}, rec)

	_, err := svc.GenerateText(context.Background(), model.NicheWebDevelopment, "")
	require.Error(t, err)
	assert.True(t, apperr.IsUpstream(err))
	assert.Equal(t, "Failed to generate text content. Please try again.", apperr.GetMessage(err))
	assert.Equal(t, 1, rec.count(model.AICallTypeText))
}

func TestCarouselService_GenerateText_InvalidNiche(t *testing.T) {
	text := &mockTextModel{}
	svc := newTestCarouselService(text, &mockImageModel{}, nil)

	_, err := svc.GenerateText(context.Background(), model.Niche("Gardening"), "")
	assert.True(t, apperr.IsInvalidInput(err))
	assert.Equal(t, int32(0), text.calls)
}

// ==================== GenerateImages ====================

func TestCarouselService_GenerateImages_PreservesOrder(t *testing.T) {
	contents := []string{"first", "second", "third"}
	img := &mockImageModel{generateImageFn: func(_ context.Context, prompt string) (string, *Usage, error) {
		// 以文案区分返回结果
		for _, c := range contents {
			if strings.Contains(prompt, `"`+c+`"`) {
				return "data:image/png;base64," + c, &Usage{}, nil
			}
		}
		return "", nil, errors.New("unexpected prompt")
	}}
	rec := &mockRecorder{}
	svc := newTestCarouselService(&mockTextModel{}, img, rec)

	images, err := svc.GenerateImages(context.Background(), contents, model.StyleMinimal, model.NicheWebDevelopment)
	require.NoError(t, err)

	require.Len(t, images, 3)
	for i, c := range contents {
		assert.Equal(t, "data:image/png;base64,"+c, images[i])
	}
	assert.Equal(t, 3, rec.count(model.AICallTypeImage))
}

func TestCarouselService_GenerateImages_OneFailureFailsBatch(t *testing.T) {
	img := &mockImageModel{generateImageFn: func(ctx context.Context, prompt string) (string, *Usage, error) {
		if strings.Contains(prompt, `"second"`) {
			return "", nil, errors.New("model overloaded")
		}
		return "data:image/png;base64,aGVsbG8=", &Usage{}, nil
	}}
	svc := newTestCarouselService(&mockTextModel{}, img, nil)

	images, err := svc.GenerateImages(context.Background(), []string{"first", "second", "third"}, model.Style3DArt, model.NicheAISolutions)
	require.Error(t, err)
	assert.Nil(t, images)
	assert.True(t, apperr.IsUpstream(err))
	assert.Equal(t, "Failed to generate images. Please try again.", apperr.GetMessage(err))
}

func TestCarouselService_GenerateImages_RequiresContent(t *testing.T) {
	tests := []struct {
		name         string
		contents     []string
		precondition bool
	}{
		{"nil", nil, true},
		{"空数组", []string{}, true},
		{"空白文案", []string{"   "}, false},
		{"含空白项", []string{"first", "\t\n"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &mockImageModel{}
			svc := newTestCarouselService(&mockTextModel{}, img, nil)

			images, err := svc.GenerateImages(context.Background(), tt.contents, model.StyleMinimal, model.NicheWebDevelopment)
			require.Error(t, err)
			assert.Nil(t, images)
			if tt.precondition {
				assert.True(t, apperr.IsPrecondition(err))
				assert.Equal(t, "Please generate content before generating images.", apperr.GetMessage(err))
			} else {
				assert.True(t, apperr.IsInvalidInput(err))
			}
			assert.Equal(t, int32(0), img.calls)
		})
	}
}

func TestCarouselService_GenerateImages_InvalidStyle(t *testing.T) {
	img := &mockImageModel{}
	svc := newTestCarouselService(&mockTextModel{}, img, nil)

	_, err := svc.GenerateImages(context.Background(), []string{"a"}, model.ImageStyle("Watercolor"), model.NicheWebDevelopment)
	assert.True(t, apperr.IsInvalidInput(err))
	assert.Equal(t, int32(0), img.calls)
}
