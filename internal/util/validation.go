package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidation 让校验错误里的字段名使用 json 名称
func RegisterValidation() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name == "" {
					return fld.Name
				}
				return name
			})
		}
	})
}

// ValidateStruct 使用 gin 的校验器校验请求体
func ValidateStruct(obj interface{}) error {
	RegisterValidation()
	if err := binding.Validator.ValidateStruct(obj); err != nil {
		return ToValidationError(err)
	}
	return nil
}

// ToValidationError 把绑定/校验错误转换为带字段明细的 ValidationError
func ToValidationError(err error) *ValidationError {
	var already *ValidationError
	if errors.As(err, &already) {
		return already
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		issues := make([]FieldIssue, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			issues = append(issues, FieldIssue{Field: fe.Field(), Message: describeTag(fe)})
		}
		return &ValidationError{Issues: issues}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return NewValidationError(typeErr.Field, fmt.Sprintf("expected %s", typeErr.Type))
	}

	return NewValidationError("body", err.Error())
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}
