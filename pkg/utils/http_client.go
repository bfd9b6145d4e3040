package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewModelClient 创建访问模型服务的 Resty 客户端
// 不开启重试：模型调用失败由用户重新触发
func NewModelClient(baseURL string, timeout time.Duration, debug bool) *resty.Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	return resty.New().
		SetBaseURL(baseURL).
		SetDebug(debug).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "Carousel-Studio/1.0")
}
