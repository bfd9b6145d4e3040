package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"carousel_studio_v1/internal/model"
	apperr "carousel_studio_v1/pkg/errors"
)

// ContentOptionCount 每次生成的文案条数
const ContentOptionCount = 3

const (
	msgContentFailed = "Failed to generate text content. Please try again."
	msgImagesFailed  = "Failed to generate images. Please try again."
)

// ==================== 结果结构 ====================

// TextResult 文案流程结果
// 模型返回不足 3 条时两项均为空
type TextResult struct {
	ContentOptions []string `json:"content_options"`
	OverallCaption string   `json:"overall_caption"`
}

// ==================== 服务 ====================

// CarouselService 文案与图片两段生成
type CarouselService struct {
	text     TextModel
	image    ImageModel
	prompts  *PromptBuilder
	recorder CallRecorder
	logger   *slog.Logger
}

// NewCarouselService 创建轮播生成服务
func NewCarouselService(text TextModel, image ImageModel, prompts *PromptBuilder, recorder CallRecorder, logger *slog.Logger) *CarouselService {
	return &CarouselService{
		text:     text,
		image:    image,
		prompts:  prompts,
		recorder: recorder,
		logger:   logger,
	}
}

// ==================== 文案生成 ====================

// GenerateText 生成 3 条文案与整体标题
func (s *CarouselService) GenerateText(ctx context.Context, niche model.Niche, userIdeas string) (*TextResult, error) {
	if !niche.Valid() {
		return nil, apperr.Invalid("Please select a valid niche.")
	}

	prompt := s.prompts.BuildContentPrompt(niche, userIdeas)

	var out contentOptionsOutput
	start := time.Now()
	usage, err := s.text.GenerateJSON(ctx, prompt, contentOptionsSchema, &out)
	s.record(ctx, CallRecord{
		CallType:  model.AICallTypeText,
		ModelName: s.text.ModelName(),
		Niche:     niche,
		Usage:     usage,
		Duration:  time.Since(start),
		Err:       err,
		Meta: map[string]interface{}{
			"prompt_chars": len(prompt),
			"has_ideas":    strings.TrimSpace(userIdeas) != "",
			"returned":     len(out.ContentOptions),
		},
	})
	if err != nil {
		s.logger.Error("content generation failed",
			slog.String("op", "CarouselService.GenerateText"),
			slog.String("niche", string(niche)),
			slog.Any("error", err),
		)
		return nil, apperr.Upstream(err, msgContentFailed)
	}

	contents := normalizeContentOptions(out.ContentOptions)
	if len(contents) < ContentOptionCount {
		s.logger.Warn("model returned too few content options",
			slog.String("op", "CarouselService.GenerateText"),
			slog.Int("returned", len(contents)),
		)
		return &TextResult{ContentOptions: []string{}, OverallCaption: ""}, nil
	}

	return &TextResult{
		ContentOptions: contents,
		OverallCaption: s.generateCaption(ctx, contents, niche),
	}, nil
}

// generateCaption 标题不可用时降级为文案拼接，不返回错误
func (s *CarouselService) generateCaption(ctx context.Context, contents []string, niche model.Niche) string {
	prompt := s.prompts.BuildCaptionPrompt(contents, niche)

	var out captionOutput
	start := time.Now()
	usage, err := s.text.GenerateJSON(ctx, prompt, captionSchema, &out)
	s.record(ctx, CallRecord{
		CallType:  model.AICallTypeCaption,
		ModelName: s.text.ModelName(),
		Niche:     niche,
		Usage:     usage,
		Duration:  time.Since(start),
		Err:       err,
	})
	if err != nil {
		s.logger.Warn("caption generation failed, using fallback",
			slog.String("op", "CarouselService.generateCaption"),
			slog.Any("error", err),
		)
		return FallbackCaption(contents)
	}

	caption, ok := FormatCaptionHashtags(out.Caption)
	if !ok {
		s.logger.Warn("caption has no usable hashtags, using fallback",
			slog.String("op", "CarouselService.generateCaption"),
			slog.Int("caption_chars", len(out.Caption)),
		)
		return FallbackCaption(contents)
	}
	return caption
}

func normalizeContentOptions(raw []string) []string {
	contents := make([]string, 0, ContentOptionCount)
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		contents = append(contents, c)
		if len(contents) == ContentOptionCount {
			break
		}
	}
	return contents
}

// ==================== 图片生成 ====================

// GenerateImages 每条文案并发生成一张图片，结果与输入同序同长
// 任一失败则整体失败，不返回部分结果
func (s *CarouselService) GenerateImages(ctx context.Context, contents []string, style model.ImageStyle, niche model.Niche) ([]string, error) {
	if !niche.Valid() {
		return nil, apperr.Invalid("Please select a valid niche.")
	}
	if !style.Valid() {
		return nil, apperr.Invalid("Please select a valid image style.")
	}
	if len(contents) == 0 {
		return nil, apperr.Precondition(msgContentRequired)
	}

	prompts := make([]string, len(contents))
	for i, text := range contents {
		if strings.TrimSpace(text) == "" {
			return nil, apperr.Invalid("Content must not be blank.")
		}
		p, err := s.prompts.BuildImagePrompt(text, style, niche)
		if err != nil {
			return nil, apperr.WrapWithCode(apperr.ErrInvalidInput, apperr.CodeInvalidInput, err.Error())
		}
		prompts[i] = p
	}

	images := make([]string, len(contents))
	g, gctx := errgroup.WithContext(ctx)

	for i := range prompts {
		g.Go(func() error {
			start := time.Now()
			img, usage, err := s.image.GenerateImage(gctx, prompts[i])

			rec := CallRecord{
				CallType:   model.AICallTypeImage,
				ModelName:  s.image.ModelName(),
				Niche:      niche,
				ImageStyle: style,
				Usage:      usage,
				Duration:   time.Since(start),
				Err:        err,
				Meta:       map[string]interface{}{"index": i},
			}
			if err == nil {
				rec.ImageCount = 1
			}
			s.record(ctx, rec)

			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("image generation failed",
			slog.String("op", "CarouselService.GenerateImages"),
			slog.String("style", string(style)),
			slog.Int("count", len(contents)),
			slog.Any("error", err),
		)
		return nil, apperr.Upstream(err, msgImagesFailed)
	}

	return images, nil
}

func (s *CarouselService) record(ctx context.Context, rec CallRecord) {
	if s.recorder != nil {
		s.recorder.Record(ctx, rec)
	}
}
