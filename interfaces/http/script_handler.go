package http

import (
	"net/http"

	"scriptgo/domain/dto"
	"scriptgo/interfaces/middleware"
	"scriptgo/usecase"

	"github.com/gin-gonic/gin"
)

type IScriptHandler interface {
	Generate(ctx *gin.Context)
	List(ctx *gin.Context)
	Get(ctx *gin.Context)
	Save(ctx *gin.Context)
	Delete(ctx *gin.Context)
	DeleteMany(ctx *gin.Context)
	SendSelected(ctx *gin.Context)
	Profile(ctx *gin.Context)
}

type ScriptHandler struct {
	scriptUsecase usecase.IScriptUsecase
}

func NewScriptHandler(uc usecase.IScriptUsecase) IScriptHandler {
	return &ScriptHandler{scriptUsecase: uc}
}

// Generate accepts JSON or a form post from the editor.
func (h *ScriptHandler) Generate(ctx *gin.Context) {
	var req dto.GenerateScriptRequest
	if err := ctx.ShouldBind(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	script, err := h.scriptUsecase.Generate(ctx.Request.Context(), middleware.PrincipalFrom(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "script": dto.NewScriptResponse(script)})
}

func (h *ScriptHandler) List(ctx *gin.Context) {
	scripts, err := h.scriptUsecase.List(ctx.Request.Context(), middleware.PrincipalFrom(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "scripts": dto.NewScriptResponses(scripts)})
}

func (h *ScriptHandler) Get(ctx *gin.Context) {
	script, err := h.scriptUsecase.Get(ctx.Request.Context(), middleware.PrincipalFrom(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "script": dto.NewScriptResponse(script)})
}

func (h *ScriptHandler) Save(ctx *gin.Context) {
	var req dto.SaveScriptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	if err := h.scriptUsecase.Save(ctx.Request.Context(), middleware.PrincipalFrom(ctx), ctx.Param("id"), req.Content); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ScriptHandler) Delete(ctx *gin.Context) {
	if err := h.scriptUsecase.Delete(ctx.Request.Context(), middleware.PrincipalFrom(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ScriptHandler) DeleteMany(ctx *gin.Context) {
	var req dto.ScriptIDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	n, err := h.scriptUsecase.DeleteMany(ctx.Request.Context(), middleware.PrincipalFrom(ctx), req.IDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "deleted": n})
}

func (h *ScriptHandler) SendSelected(ctx *gin.Context) {
	var req dto.ScriptIDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	n, err := h.scriptUsecase.SendSelected(ctx.Request.Context(), middleware.PrincipalFrom(ctx), req.IDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "queued": n})
}

func (h *ScriptHandler) Profile(ctx *gin.Context) {
	profile, err := h.scriptUsecase.Profile(ctx.Request.Context(), middleware.PrincipalFrom(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}
