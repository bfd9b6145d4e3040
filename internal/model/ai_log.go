package model

import "gorm.io/datatypes"

// AICallLog 模型调用日志
// 只记录调用元数据，不保存生成内容
type AICallLog struct {
	BaseModel

	// 关联
	SessionID string `gorm:"size:64;index;comment:会话ID" json:"session_id"`

	// 调用信息
	CallType   string `gorm:"size:32;index;comment:调用类型(text/caption/image)" json:"call_type"`
	ModelName  string `gorm:"size:128;comment:模型名称" json:"model_name"`
	Niche      string `gorm:"size:64;index;comment:领域" json:"niche"`
	ImageStyle string `gorm:"size:64;comment:图片风格" json:"image_style"`

	// 用量统计
	InputTokens  int `gorm:"default:0;comment:输入token数" json:"input_tokens"`
	OutputTokens int `gorm:"default:0;comment:输出token数" json:"output_tokens"`
	ImageCount   int `gorm:"default:0;comment:生成图片数量" json:"image_count"`

	// 性能
	DurationMs int64 `gorm:"comment:耗时(毫秒)" json:"duration_ms"`

	// 状态
	Status   string `gorm:"size:32;index;default:success;comment:状态(success/failed)" json:"status"`
	ErrorMsg string `gorm:"size:1024;comment:错误信息" json:"error_msg,omitempty"`

	// 调用参数摘要 (prompt 长度、内容条数等)
	Meta datatypes.JSON `gorm:"comment:附加信息" json:"meta,omitempty"`
}

func (AICallLog) TableName() string {
	return "ai_call_logs"
}

// ==================== 调用类型常量 ====================

const (
	AICallTypeText    = "text"
	AICallTypeCaption = "caption"
	AICallTypeImage   = "image"
)

// ==================== 状态常量 ====================

const (
	AICallStatusSuccess = "success"
	AICallStatusFailed  = "failed"
)
