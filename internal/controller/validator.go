package controller

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"carousel_studio_v1/internal/model"
)

// RegisterValidators 注册 niche / image_style 校验标签到 gin 绑定引擎
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	if err := v.RegisterValidation("niche", func(fl validator.FieldLevel) bool {
		return model.Niche(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}

	return v.RegisterValidation("image_style", func(fl validator.FieldLevel) bool {
		return model.ImageStyle(fl.Field().String()).Valid()
	})
}
