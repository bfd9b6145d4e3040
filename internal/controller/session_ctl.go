package controller

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carousel_studio_v1/internal/api/dto"
	"carousel_studio_v1/internal/model"
	"carousel_studio_v1/internal/service"
	apperr "carousel_studio_v1/pkg/errors"
	"carousel_studio_v1/pkg/utils"
)

// ==================== 控制器 ====================

// SessionController 会话编排与下载接口
type SessionController struct {
	sessions *service.SessionService
	export   *service.ExportService
	log      *slog.Logger
}

func NewSessionController(sessions *service.SessionService, export *service.ExportService, log *slog.Logger) *SessionController {
	return &SessionController{sessions: sessions, export: export, log: log}
}

// ==================== 会话 ====================

// Create 创建会话
// @Summary 创建会话
// @Tags Session
// @Produce json
// @Success 200 {object} model.Session
// @Router /api/sessions [post]
func (ctrl *SessionController) Create(c *gin.Context) {
	sess, err := ctrl.sessions.Create(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	respondOK(c, sess)
}

// Get 查看会话状态
// @Summary 会话详情
// @Tags Session
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} model.Session
// @Failure 404 {object} map[string]interface{} "会话不存在"
// @Router /api/sessions/{id} [get]
func (ctrl *SessionController) Get(c *gin.Context) {
	sess, err := ctrl.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	respondOK(c, sess)
}

// Delete 删除会话
// @Summary 删除会话
// @Tags Session
// @Param id path string true "会话ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions/{id} [delete]
func (ctrl *SessionController) Delete(c *gin.Context) {
	if err := ctrl.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	respondOK(c, nil)
}

// ==================== 生成 ====================

// GenerateContent 会话内生成文案
// @Summary 生成文案
// @Description 丢弃旧结果；进行中的会话返回 409
// @Tags Session
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param body body dto.SessionContentReq true "生成请求"
// @Success 200 {object} model.Session
// @Failure 409 {object} map[string]interface{} "请求进行中"
// @Failure 502 {object} map[string]interface{} "模型调用失败"
// @Router /api/sessions/{id}/content [post]
func (ctrl *SessionController) GenerateContent(c *gin.Context) {
	var req dto.SessionContentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sess, err := ctrl.sessions.GenerateContent(c.Request.Context(), c.Param("id"), service.GenerateContentInput{
		Niche:      model.Niche(req.Niche),
		UserIdeas:  req.UserIdeas,
		ImageStyle: model.ImageStyle(req.ImageStyle),
	})
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	respondOK(c, sess)
}

// GenerateImages 会话内生成图片
// @Summary 生成图片
// @Description 需先生成文案并选择风格，否则返回 422
// @Tags Session
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param body body dto.SessionImagesReq false "风格"
// @Success 200 {object} model.Session
// @Failure 409 {object} map[string]interface{} "请求进行中"
// @Failure 422 {object} map[string]interface{} "前置条件不满足"
// @Failure 502 {object} map[string]interface{} "模型调用失败"
// @Router /api/sessions/{id}/images [post]
func (ctrl *SessionController) GenerateImages(c *gin.Context) {
	var req dto.SessionImagesReq
	// 请求体可为空
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	sess, err := ctrl.sessions.GenerateImages(c.Request.Context(), c.Param("id"), model.ImageStyle(req.ImageStyle))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	respondOK(c, sess)
}

// ==================== 下载 ====================

// Caption 标题纯文本
// @Summary 下载标题
// @Tags Session
// @Produce plain
// @Param id path string true "会话ID"
// @Success 200 {string} string
// @Router /api/sessions/{id}/caption [get]
func (ctrl *SessionController) Caption(c *gin.Context) {
	sess, err := ctrl.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	if !sess.HasContent() {
		respondError(c, ctrl.log, apperr.Precondition("Please generate content first."))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="saasnext-caption.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(sess.OverallCaption))
}

// PostImage 下载单张图片
// @Summary 下载图片
// @Tags Session
// @Produce octet-stream
// @Param id path string true "会话ID"
// @Param index path int true "序号(从0开始)"
// @Success 200 {file} file
// @Router /api/sessions/{id}/posts/{index}/image [get]
func (ctrl *SessionController) PostImage(c *gin.Context) {
	post, index, ok := ctrl.loadPost(c)
	if !ok {
		return
	}

	uri, err := utils.ParseDataURI(post.Image)
	if err != nil {
		respondError(c, ctrl.log, apperr.Wrap(err, "stored image is not a valid data uri"))
		return
	}

	filename := service.PostImageFilename(index, uri.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, uri.MimeType, uri.Data)
}

// PostText 下载单条文案
// @Summary 下载文案
// @Tags Session
// @Produce plain
// @Param id path string true "会话ID"
// @Param index path int true "序号(从0开始)"
// @Success 200 {string} string
// @Router /api/sessions/{id}/posts/{index}/text [get]
func (ctrl *SessionController) PostText(c *gin.Context) {
	post, index, ok := ctrl.loadPost(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.PostTextFilename(index)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(post.Content))
}

// Export 上传图片到对象存储
// @Summary 导出轮播
// @Tags Session
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} dto.ExportResp
// @Failure 422 {object} map[string]interface{} "尚未生成图片"
// @Failure 503 {object} map[string]interface{} "未配置存储"
// @Router /api/sessions/{id}/export [post]
func (ctrl *SessionController) Export(c *gin.Context) {
	sess, err := ctrl.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	posts, err := ctrl.export.Export(c.Request.Context(), sess)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	respondOK(c, dto.ExportResp{SessionID: sess.ID, Posts: posts})
}

// loadPost 读取会话中第 index 条帖子，失败时已写响应
func (ctrl *SessionController) loadPost(c *gin.Context) (model.CarouselPost, int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		respondError(c, ctrl.log, apperr.Invalid("Invalid post index."))
		return model.CarouselPost{}, 0, false
	}

	sess, err := ctrl.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctrl.log, err)
		return model.CarouselPost{}, 0, false
	}
	if sess.State != model.SessionComplete {
		respondError(c, ctrl.log, apperr.Precondition("Please generate images first."))
		return model.CarouselPost{}, 0, false
	}
	if index >= len(sess.Posts) {
		respondError(c, ctrl.log, apperr.Invalid("Invalid post index."))
		return model.CarouselPost{}, 0, false
	}

	return sess.Posts[index], index, true
}
