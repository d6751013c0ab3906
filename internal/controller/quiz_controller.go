package controller

import (
	"clarity_hub_backend/internal/service"
	"clarity_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// @Summary 生成测验
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz body service.CreateQuizRequest true "测验参数"
// @Success 201 {object} service.CreatedResponse
// @Failure 400 {object} util.ErrorResponse
// @Failure 502 {object} util.ErrorResponse
// @Router /api/quiz [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req service.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.ValidationFailed(ctx, util.ToValidationError(err))
		return
	}

	id, err := c.QuizService.Create(ctx.Request.Context(), util.CurrentUserID(ctx), &req)
	if err != nil {
		util.HandleError(ctx, err, "Failed to generate quiz")
		return
	}

	util.Created(ctx, service.CreatedResponse{ID: id})
}

// @Summary 我的测验
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.QuizSummary
// @Router /api/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.QuizService.List(ctx.Request.Context(), util.CurrentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch quizzes")
		return
	}

	util.Success(ctx, quizzes)
}

// @Summary 获取测验
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Success 200 {object} service.QuizView
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/quiz/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	view, err := c.QuizService.Get(ctx.Request.Context(), util.CurrentUserID(ctx), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err, "Failed to fetch quiz")
		return
	}

	util.Success(ctx, view)
}

// @Summary 记录测验分数
// @Description 覆盖之前的分数
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "测验ID"
// @Param score body service.RecordScoreRequest true "分数 0-100"
// @Success 200 {object} service.ScoreView
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/quiz/{id}/score [post]
func (c *QuizController) RecordScore(ctx *gin.Context) {
	var req service.RecordScoreRequest
	bodyErr := decodeBody(ctx, &req)
	if bodyErr != nil {
		req = service.RecordScoreRequest{}
	}

	view, err := c.QuizService.RecordScore(ctx.Request.Context(), util.CurrentUserID(ctx), ctx.Param("id"), &req)
	if err != nil {
		util.HandleError(ctx, preferBodyError(err, bodyErr), "Failed to record score")
		return
	}

	util.Success(ctx, view)
}
