package controller

import (
	"strconv"

	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	Service *service.RecommendationService
}

func NewRecommendationController(svc *service.RecommendationService) *RecommendationController {
	return &RecommendationController{Service: svc}
}

// @Summary 课程推荐
// @Tags 推荐
// @Produce json
// @Security ApiKeyAuth
// @Param sortBy query string false "排序方式 relevance|newest" default(relevance)
// @Param limit query int false "返回数量上限" default(20)
// @Success 200 {object} util.Response
// @Router /api/recommendations [get]
func (c *RecommendationController) GetRecommendations(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sortBy := ctx.DefaultQuery("sortBy", service.SortByRelevance)
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, err := c.Service.Recommend(user.UserID, sortBy, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	util.Success(ctx, courses)
}
