package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/skillset-backend/internal/logger"
	"github.com/yungbote/skillset-backend/internal/requestdata"
	"github.com/yungbote/skillset-backend/internal/services"
)

var errMissingVotes = errors.New("votes is required")

type SetHandler struct {
	log        *logger.Logger
	setService services.SetService
}

func NewSetHandler(log *logger.Logger, setService services.SetService) *SetHandler {
	return &SetHandler{
		log:        log.With("handler", "SetHandler"),
		setService: setService,
	}
}

// callerID pulls the authenticated user out of the request context. The auth
// middleware guarantees it is present on protected routes.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

// pathID parses a uuid path parameter. A malformed id responds 404 so that
// malformed and nonexistent ids are indistinguishable to the caller.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusNotFound, "not_found", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *SetHandler) CreateSet(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	set, err := h.setService.CreateSet(c.Request.Context(), nil, userID, req.Name)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, set)
}

func (h *SetHandler) RenameSet(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	setID, ok := pathID(c, "setId")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	set, err := h.setService.RenameSet(c.Request.Context(), nil, userID, setID, req.Name)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, set)
}

func (h *SetHandler) DeleteSet(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	setID, ok := pathID(c, "setId")
	if !ok {
		return
	}
	if err := h.setService.DeleteSet(c.Request.Context(), nil, userID, setID); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "custom set deleted successfully"})
}

func (h *SetHandler) ListSets(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	sets, err := h.setService.ListSets(c.Request.Context(), nil, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, sets)
}

func (h *SetHandler) GetSet(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	setID, ok := pathID(c, "setId")
	if !ok {
		return
	}
	set, err := h.setService.GetSet(c.Request.Context(), nil, userID, setID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, set)
}

func (h *SetHandler) AddSkill(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	setID, ok := pathID(c, "setId")
	if !ok {
		return
	}
	var req struct {
		Name  string `json:"name"`
		Votes *int   `json:"votes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Votes == nil {
		RespondError(c, http.StatusBadRequest, "validation", errMissingVotes)
		return
	}
	set, err := h.setService.AddSkill(c.Request.Context(), nil, userID, setID, req.Name, *req.Votes)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, set)
}

func (h *SetHandler) RemoveSkill(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	setID, ok := pathID(c, "setId")
	if !ok {
		return
	}
	skillID, ok := pathID(c, "skillId")
	if !ok {
		return
	}
	set, err := h.setService.RemoveSkill(c.Request.Context(), nil, userID, setID, skillID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, set)
}

func (h *SetHandler) SetVotes(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	setID, ok := pathID(c, "setId")
	if !ok {
		return
	}
	skillID, ok := pathID(c, "skillId")
	if !ok {
		return
	}
	var req struct {
		Votes *int `json:"votes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Votes == nil {
		RespondError(c, http.StatusBadRequest, "validation", errMissingVotes)
		return
	}
	set, err := h.setService.SetVotes(c.Request.Context(), nil, userID, setID, skillID, *req.Votes)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, set)
}

func (h *SetHandler) AddTag(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	setID, ok := pathID(c, "setId")
	if !ok {
		return
	}
	skillID, ok := pathID(c, "skillId")
	if !ok {
		return
	}
	var req struct {
		Tag string `json:"tag"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	set, err := h.setService.AddTag(c.Request.Context(), nil, userID, setID, skillID, req.Tag)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, set)
}

func (h *SetHandler) RemoveTag(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	setID, ok := pathID(c, "setId")
	if !ok {
		return
	}
	skillID, ok := pathID(c, "skillId")
	if !ok {
		return
	}
	set, err := h.setService.RemoveTag(c.Request.Context(), nil, userID, setID, skillID, c.Param("tag"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, set)
}

func (h *SetHandler) ListDistinctTags(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	tags, err := h.setService.ListDistinctTags(c.Request.Context(), nil, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, tags)
}
