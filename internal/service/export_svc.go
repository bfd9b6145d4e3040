package service

import (
	"context"
	"fmt"
	"log/slog"

	"carousel_studio_v1/internal/model"
	apperr "carousel_studio_v1/pkg/errors"
	"carousel_studio_v1/pkg/utils"
)

// ExportedPost 导出后的轮播帖
type ExportedPost struct {
	Index    int    `json:"index"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

// ExportService 将已完成会话的图片上传到对象存储
type ExportService struct {
	storage StorageProvider
	logger  *slog.Logger
}

// NewExportService storage 为 nil 时导出不可用
func NewExportService(storage StorageProvider, logger *slog.Logger) *ExportService {
	return &ExportService{storage: storage, logger: logger}
}

func (s *ExportService) Enabled() bool {
	return s.storage != nil
}

// Export 依次上传全部图片；任一失败则回滚已上传文件
func (s *ExportService) Export(ctx context.Context, session *model.Session) ([]ExportedPost, error) {
	if s.storage == nil {
		return nil, apperr.WrapWithCode(apperr.ErrStorageDisabled, apperr.CodeStorageDisabled, "Export storage is not configured.")
	}
	if session.State != model.SessionComplete || len(session.Posts) == 0 {
		return nil, apperr.Precondition("Please generate images before exporting.")
	}

	exported := make([]ExportedPost, 0, len(session.Posts))
	for i, post := range session.Posts {
		uri, err := utils.ParseDataURI(post.Image)
		if err != nil {
			s.rollback(ctx, exported)
			return nil, apperr.Wrap(err, fmt.Sprintf("post %d has an invalid image", i+1))
		}

		filename := PostImageFilename(i, uri.MimeType)
		url, err := s.storage.Upload(ctx, uri.Data, session.ID+"/"+filename, uri.MimeType)
		if err != nil {
			s.rollback(ctx, exported)
			s.logger.Error("export upload failed",
				slog.String("op", "ExportService.Export"),
				slog.String("session_id", session.ID),
				slog.Int("index", i),
				slog.Any("error", err),
			)
			return nil, apperr.Wrap(err, "Failed to export images. Please try again.")
		}

		exported = append(exported, ExportedPost{Index: i, Content: post.Content, ImageURL: url})
	}

	s.logger.Info("carousel exported",
		slog.String("session_id", session.ID),
		slog.Int("count", len(exported)),
	)
	return exported, nil
}

func (s *ExportService) rollback(ctx context.Context, uploaded []ExportedPost) {
	for _, p := range uploaded {
		if err := s.storage.Delete(context.WithoutCancel(ctx), p.ImageURL); err != nil {
			s.logger.Warn("export rollback failed",
				slog.String("url", p.ImageURL),
				slog.Any("error", err),
			)
		}
	}
}

// PostImageFilename 下载文件名，序号从 1 开始
func PostImageFilename(index int, mimeType string) string {
	return fmt.Sprintf("saasnext-post-image-%d%s", index+1, utils.ExtensionForMIME(mimeType))
}

// PostTextFilename 文案下载文件名
func PostTextFilename(index int) string {
	return fmt.Sprintf("saasnext-post-%d.txt", index+1)
}
