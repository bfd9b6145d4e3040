package controller

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"carousel_studio_v1/internal/api/dto"
	"carousel_studio_v1/internal/service"
	apperr "carousel_studio_v1/pkg/errors"
)

// UsageController 模型调用用量统计
type UsageController struct {
	callLogs *service.CallLogService
	log      *slog.Logger
}

func NewUsageController(callLogs *service.CallLogService, log *slog.Logger) *UsageController {
	return &UsageController{callLogs: callLogs, log: log}
}

// Summary 时间范围内用量汇总
// @Summary 用量汇总
// @Tags Usage
// @Produce json
// @Param start query string false "开始日期 YYYY-MM-DD"
// @Param end query string false "结束日期 YYYY-MM-DD (含)"
// @Success 200 {object} repository.AIUsageStats
// @Router /api/usage/summary [get]
func (ctrl *UsageController) Summary(c *gin.Context) {
	var req dto.UsageRangeReq
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	stats, err := ctrl.callLogs.Summary(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	respondOK(c, stats)
}

// Daily 最近 N 天每日用量
// @Summary 每日用量
// @Tags Usage
// @Produce json
// @Param days query int false "天数" default(7)
// @Success 200 {array} repository.DailyUsageStats
// @Router /api/usage/daily [get]
func (ctrl *UsageController) Daily(c *gin.Context) {
	var req dto.DailyUsageReq
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Days == 0 {
		req.Days = 7
	}

	end := time.Now()
	start := end.AddDate(0, 0, -req.Days)

	stats, err := ctrl.callLogs.Daily(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	respondOK(c, stats)
}

// BySession 单个会话用量
// @Summary 会话用量
// @Tags Usage
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} repository.AIUsageStats
// @Router /api/usage/sessions/{id} [get]
func (ctrl *UsageController) BySession(c *gin.Context) {
	stats, err := ctrl.callLogs.BySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	respondOK(c, stats)
}

// parseRange 空值表示不限制；end 包含当天
func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startStr != "" {
		if start, err = time.ParseInLocation(time.DateOnly, startStr, time.Local); err != nil {
			return start, end, apperr.Invalid("start must be YYYY-MM-DD.")
		}
	}
	if endStr != "" {
		if end, err = time.ParseInLocation(time.DateOnly, endStr, time.Local); err != nil {
			return start, end, apperr.Invalid("end must be YYYY-MM-DD.")
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, apperr.Invalid("end must not be before start.")
	}
	return start, end, nil
}
