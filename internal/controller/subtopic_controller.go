package controller

import (
	"clarity_hub_backend/internal/service"
	"clarity_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubtopicController struct {
	SubtopicDetailService *service.SubtopicDetailService
}

func NewSubtopicController(subtopicDetailService *service.SubtopicDetailService) *SubtopicController {
	return &SubtopicController{SubtopicDetailService: subtopicDetailService}
}

// @Summary 子主题讲解
// @Description 优先返回已生成的内容，没有时调用生成服务并保存
// @Tags 路线图
// @Produce json
// @Security BearerAuth
// @Param name query string true "子主题名称"
// @Success 200 {object} service.SubtopicDetailResponse
// @Failure 400 {object} util.ErrorResponse
// @Failure 502 {object} util.ErrorResponse
// @Router /api/subtopic-details [get]
func (c *SubtopicController) GetSubtopicDetails(ctx *gin.Context) {
	details, err := c.SubtopicDetailService.GetDetail(ctx.Request.Context(), util.CurrentUserID(ctx), ctx.Query("name"))
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch subtopic details")
		return
	}

	util.Success(ctx, service.SubtopicDetailResponse{Details: details})
}
