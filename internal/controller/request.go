package controller

import (
	"clarity_hub_backend/internal/util"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
)

// decodeBody 只解码不校验，校验放在所有权检查之后
func decodeBody(ctx *gin.Context, obj interface{}) error {
	if ctx.Request.Body == nil {
		return util.NewValidationError("body", "is required")
	}
	if err := json.NewDecoder(ctx.Request.Body).Decode(obj); err != nil {
		return util.ToValidationError(err)
	}
	return nil
}

// preferBodyError 请求体解码失败时，用解码错误替换随后的字段校验错误
func preferBodyError(err, bodyErr error) error {
	var validationErr *util.ValidationError
	if bodyErr != nil && errors.As(err, &validationErr) {
		return bodyErr
	}
	return err
}
