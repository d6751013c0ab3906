package controller

import (
	"clarity_hub_backend/internal/service"
	"clarity_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RoadmapController struct {
	RoadmapService *service.RoadmapService
}

func NewRoadmapController(roadmapService *service.RoadmapService) *RoadmapController {
	return &RoadmapController{RoadmapService: roadmapService}
}

// @Summary 生成学习路线图
// @Description 调用内容生成服务生成路线图并保存
// @Tags 路线图
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roadmap body service.CreateRoadmapRequest true "路线图参数"
// @Success 201 {object} service.CreatedResponse
// @Failure 400 {object} util.ErrorResponse
// @Failure 502 {object} util.ErrorResponse
// @Router /api/generate-roadmap [post]
func (c *RoadmapController) GenerateRoadmap(ctx *gin.Context) {
	var req service.CreateRoadmapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, util.ToValidationError(err))
		return
	}

	id, err := c.RoadmapService.Create(ctx.Request.Context(), util.CurrentUserID(ctx), &req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to generate roadmap")
		return
	}

	util.Created(ctx, service.CreatedResponse{ID: id})
}

// @Summary 我的路线图
// @Description 按创建时间倒序返回当前用户的路线图及完成进度
// @Tags 路线图
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.RoadmapSummary
// @Router /api/roadmaps [get]
func (c *RoadmapController) ListRoadmaps(ctx *gin.Context) {
	roadmaps, err := c.RoadmapService.List(ctx.Request.Context(), util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch roadmaps")
		return
	}

	util.Success(ctx, roadmaps)
}

// @Summary 获取路线图
// @Tags 路线图
// @Produce json
// @Security BearerAuth
// @Param id path string true "路线图ID"
// @Success 200 {object} service.RoadmapView
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/roadmap/{id} [get]
func (c *RoadmapController) GetRoadmap(ctx *gin.Context) {
	view, err := c.RoadmapService.Get(ctx.Request.Context(), util.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch roadmap")
		return
	}

	util.Success(ctx, view)
}

// @Summary 更新子主题完成状态
// @Description 重复提交相同状态不会产生额外效果
// @Tags 路线图
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "路线图ID"
// @Param progress body service.UpdateProgressRequest true "进度"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Failure 409 {object} util.ErrorResponse
// @Router /api/roadmap/{id}/progress [post]
func (c *RoadmapController) UpdateProgress(ctx *gin.Context) {
	var req service.UpdateProgressRequest
	bodyErr := decodeBody(ctx, &req)
	if bodyErr != nil {
		req = service.UpdateProgressRequest{}
	}

	err := c.RoadmapService.UpdateProgress(ctx.Request.Context(), util.CurrentUserID(ctx), ctx.Param("id"), &req)
	if err != nil {
		util.HandleError(ctx, preferBodyError(err, bodyErr), "Failed to update progress")
		return
	}

	util.Success(ctx, gin.H{"success": true})
}
