package dto

import (
	"carousel_studio_v1/internal/model"
	"carousel_studio_v1/internal/service"
)

// ==================== 请求 DTO ====================

// GenerateTextReq 生成文案请求
type GenerateTextReq struct {
	Niche     string `json:"niche" binding:"required,niche"`
	UserIdeas string `json:"user_ideas" binding:"max=2000"`
}

// GenerateImagesReq 无会话生成图片请求
type GenerateImagesReq struct {
	ContentOptions []string `json:"content_options" binding:"max=3,dive,required"`
	ImageStyle     string   `json:"image_style" binding:"required,image_style"`
	Niche          string   `json:"niche" binding:"required,niche"`
}

// SessionContentReq 会话内生成文案
type SessionContentReq struct {
	Niche      string `json:"niche" binding:"required,niche"`
	UserIdeas  string `json:"user_ideas" binding:"max=2000"`
	ImageStyle string `json:"image_style" binding:"omitempty,image_style"` // 可选，预选风格
}

// SessionImagesReq 会话内生成图片，风格为空时沿用会话选择
type SessionImagesReq struct {
	ImageStyle string `json:"image_style" binding:"omitempty,image_style"`
}

// UsageRangeReq 用量查询时间范围 (YYYY-MM-DD)
type UsageRangeReq struct {
	Start string `form:"start"`
	End   string `form:"end"`
}

// DailyUsageReq 每日用量查询
type DailyUsageReq struct {
	Days int `form:"days" binding:"omitempty,min=1,max=365"`
}

// ==================== 响应 DTO ====================

// CatalogResp 领域与风格目录
type CatalogResp struct {
	Niches      []model.CatalogOption `json:"niches"`
	ImageStyles []model.CatalogOption `json:"image_styles"`
}

// GenerateTextResp 文案结果
type GenerateTextResp = service.TextResult

// ImageOption 单张图片
type ImageOption struct {
	Image string `json:"image"` // data:<mime>;base64,<data>
}

// GenerateImagesResp 图片结果，与请求文案同序
type GenerateImagesResp struct {
	ImageOptions []ImageOption `json:"image_options"`
}

// ExportResp 导出结果
type ExportResp struct {
	SessionID string                 `json:"session_id"`
	Posts     []service.ExportedPost `json:"posts"`
}
