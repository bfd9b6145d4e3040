package model

import "time"

// SessionState 会话状态
// idle -> text_pending -> text_ready -> images_pending -> complete
type SessionState string

const (
	SessionIdle          SessionState = "idle"
	SessionTextPending   SessionState = "text_pending"
	SessionTextReady     SessionState = "text_ready"
	SessionImagesPending SessionState = "images_pending"
	SessionComplete      SessionState = "complete"
)

// Session 一次生成会话的临时状态，不落库
type Session struct {
	ID    string       `json:"id"`
	State SessionState `json:"state"`

	// 当前选择
	Niche      Niche      `json:"niche,omitempty"`
	ImageStyle ImageStyle `json:"image_style,omitempty"`
	UserIdeas  string     `json:"user_ideas,omitempty"`

	// 生成结果
	ContentOptions []string       `json:"content_options"`
	OverallCaption string         `json:"overall_caption"`
	Posts          []CarouselPost `json:"posts"`

	LastError string    `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Busy 是否有请求进行中
func (s *Session) Busy() bool {
	return s.State == SessionTextPending || s.State == SessionImagesPending
}

// HasContent 文案已生成且非空
func (s *Session) HasContent() bool {
	return (s.State == SessionTextReady || s.State == SessionComplete) && len(s.ContentOptions) > 0
}

// Clone 深拷贝，避免内存存储共享切片
func (s *Session) Clone() *Session {
	c := *s
	c.ContentOptions = append([]string(nil), s.ContentOptions...)
	c.Posts = append([]CarouselPost(nil), s.Posts...)
	return &c
}
