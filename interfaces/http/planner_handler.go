package http

import (
	"net/http"

	"scriptgo/domain/dto"
	"scriptgo/interfaces/middleware"
	"scriptgo/usecase"

	"github.com/gin-gonic/gin"
)

type IPlannerHandler interface {
	Generate(ctx *gin.Context)
	List(ctx *gin.Context)
}

type PlannerHandler struct {
	plannerUsecase usecase.IPlannerUsecase
}

func NewPlannerHandler(uc usecase.IPlannerUsecase) IPlannerHandler {
	return &PlannerHandler{plannerUsecase: uc}
}

func (h *PlannerHandler) Generate(ctx *gin.Context) {
	var req dto.PlannerRequest
	if err := ctx.ShouldBind(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	scripts, err := h.plannerUsecase.Generate(ctx.Request.Context(), middleware.PrincipalFrom(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(scripts),
		"scripts": dto.NewScriptResponses(scripts),
	})
}

func (h *PlannerHandler) List(ctx *gin.Context) {
	scripts, err := h.plannerUsecase.List(ctx.Request.Context(), middleware.PrincipalFrom(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "scripts": dto.NewScriptResponses(scripts)})
}
