package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/owasp-zof/tabletop-portal/internal/requestdata"
	"github.com/owasp-zof/tabletop-portal/internal/services"
	"github.com/owasp-zof/tabletop-portal/internal/types"
)

type TabletopHandler struct {
	tabletopService services.TabletopService
}

func NewTabletopHandler(tabletopService services.TabletopService) *TabletopHandler {
	return &TabletopHandler{tabletopService: tabletopService}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing request identity"))
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

func (th *TabletopHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		StoryPrompt string `json:"story_prompt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	tabletop, err := th.tabletopService.Create(c.Request.Context(), userID, services.TabletopCreateInput{
		Title:       req.Title,
		Description: req.Description,
		StoryPrompt: req.StoryPrompt,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, tabletop)
}

func (th *TabletopHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	status := types.TabletopStatus(c.Query("status"))
	tabletops, err := th.tabletopService.List(c.Request.Context(), userID, status)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"tabletops": tabletops})
}

func (th *TabletopHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "tabletop_id")
	if !ok {
		return
	}
	tabletop, err := th.tabletopService.Get(c.Request.Context(), id, userID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "tabletop_not_found", err)
		return
	}
	RespondOK(c, tabletop)
}

func (th *TabletopHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "tabletop_id")
	if !ok {
		return
	}
	var req struct {
		Title       *string               `json:"title"`
		Description *string               `json:"description"`
		StoryPrompt *string               `json:"story_prompt"`
		Status      *types.TabletopStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	if req.Status != nil && !types.ValidTabletopStatus(*req.Status) {
		RespondError(c, http.StatusBadRequest, "invalid_status", fmt.Errorf("unknown status: %s", *req.Status))
		return
	}
	tabletop, err := th.tabletopService.Update(c.Request.Context(), id, userID, services.TabletopUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		StoryPrompt: req.StoryPrompt,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, services.ErrTabletopNotFound) {
			RespondError(c, http.StatusNotFound, "tabletop_not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "update_failed", err)
		return
	}
	RespondOK(c, tabletop)
}

func (th *TabletopHandler) AnswerQuestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "tabletop_id")
	if !ok {
		return
	}
	var req struct {
		QuestionType types.QuestionType `json:"question_type"`
		Answer       string             `json:"answer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	tabletop, err := th.tabletopService.AnswerQuestion(c.Request.Context(), id, userID, req.QuestionType, req.Answer)
	if err != nil {
		if errors.Is(err, services.ErrTabletopNotFound) {
			RespondError(c, http.StatusNotFound, "tabletop_not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "answer_failed", err)
		return
	}
	RespondOK(c, tabletop)
}

func (th *TabletopHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "tabletop_id")
	if !ok {
		return
	}
	if err := th.tabletopService.Delete(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, services.ErrTabletopNotFound) {
			RespondError(c, http.StatusNotFound, "tabletop_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"message": "tabletop deleted"})
}
