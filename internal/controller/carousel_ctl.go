package controller

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"carousel_studio_v1/internal/api/dto"
	"carousel_studio_v1/internal/model"
	"carousel_studio_v1/internal/service"
)

// ==================== 控制器 ====================

// CarouselController 无会话的两段生成接口
type CarouselController struct {
	carousel *service.CarouselService
	log      *slog.Logger
}

func NewCarouselController(carousel *service.CarouselService, log *slog.Logger) *CarouselController {
	return &CarouselController{carousel: carousel, log: log}
}

// ==================== API 方法 ====================

// Catalog 领域与风格目录
// @Summary 获取领域与图片风格
// @Tags Carousel
// @Produce json
// @Success 200 {object} dto.CatalogResp
// @Router /api/catalog [get]
func (ctrl *CarouselController) Catalog(c *gin.Context) {
	respondOK(c, dto.CatalogResp{
		Niches:      model.Niches,
		ImageStyles: model.ImageStyles,
	})
}

// GenerateText 生成 3 条文案与标题
// @Summary 生成文案
// @Description 模型返回不足 3 条时结果为空，不视为错误
// @Tags Carousel
// @Accept json
// @Produce json
// @Param body body dto.GenerateTextReq true "生成请求"
// @Success 200 {object} dto.GenerateTextResp
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 429 {object} map[string]interface{} "请求过于频繁"
// @Failure 502 {object} map[string]interface{} "模型调用失败"
// @Router /api/carousel/text [post]
func (ctrl *CarouselController) GenerateText(c *gin.Context) {
	var req dto.GenerateTextReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := ctrl.carousel.GenerateText(c.Request.Context(), model.Niche(req.Niche), req.UserIdeas)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	respondOK(c, result)
}

// GenerateImages 每条文案生成一张图片
// @Summary 生成图片
// @Description 并发生成，任一失败整体失败
// @Tags Carousel
// @Accept json
// @Produce json
// @Param body body dto.GenerateImagesReq true "生成请求"
// @Success 200 {object} dto.GenerateImagesResp
// @Failure 400 {object} map[string]interface{} "参数错误"
// @Failure 422 {object} map[string]interface{} "缺少文案"
// @Failure 502 {object} map[string]interface{} "模型调用失败"
// @Router /api/carousel/images [post]
func (ctrl *CarouselController) GenerateImages(c *gin.Context) {
	var req dto.GenerateImagesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	images, err := ctrl.carousel.GenerateImages(c.Request.Context(), req.ContentOptions, model.ImageStyle(req.ImageStyle), model.Niche(req.Niche))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}

	options := make([]dto.ImageOption, len(images))
	for i, img := range images {
		options[i] = dto.ImageOption{Image: img}
	}
	respondOK(c, dto.GenerateImagesResp{ImageOptions: options})
}
