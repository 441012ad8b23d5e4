package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/owasp-zof/tabletop-portal/internal/agents"
	"github.com/owasp-zof/tabletop-portal/internal/repos"
	"github.com/owasp-zof/tabletop-portal/internal/services"
	"github.com/owasp-zof/tabletop-portal/internal/types"
)

type DocumentHandler struct {
	tabletopService services.TabletopService
	documentService services.DocumentGenerationService
	documentRepo    repos.DocumentRepo
}

func NewDocumentHandler(
	tabletopService services.TabletopService,
	documentService services.DocumentGenerationService,
	documentRepo repos.DocumentRepo,
) *DocumentHandler {
	return &DocumentHandler{
		tabletopService: tabletopService,
		documentService: documentService,
		documentRepo:    documentRepo,
	}
}

// ListTypes returns the catalog of document types the portal can draft. It
// reads static data only, so it needs no tabletop.
func (dh *DocumentHandler) ListTypes(c *gin.Context) {
	out := make([]gin.H, 0, len(types.DocumentTypeOrder))
	for _, dt := range types.DocumentTypeOrder {
		info := types.DocumentTypeInfos[dt]
		out = append(out, gin.H{
			"document_type": dt,
			"name":          info.Name,
			"description":   info.Description,
		})
	}
	RespondOK(c, gin.H{"document_types": out})
}

func (dh *DocumentHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tabletopID, ok := pathUUID(c, "tabletop_id")
	if !ok {
		return
	}
	if _, err := dh.tabletopService.Get(c.Request.Context(), tabletopID, userID); err != nil {
		RespondError(c, http.StatusNotFound, "tabletop_not_found", err)
		return
	}
	documents, err := dh.documentRepo.ListByTabletop(c.Request.Context(), nil, tabletopID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, gin.H{"documents": documents})
}

// GenerateAll drafts every requested document type for the tabletop. An empty
// or missing document_types list means all six.
func (dh *DocumentHandler) GenerateAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tabletopID, ok := pathUUID(c, "tabletop_id")
	if !ok {
		return
	}
	var req struct {
		DocumentTypes []types.DocumentType `json:"document_types"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
			return
		}
	}
	tabletop, err := dh.tabletopService.Get(c.Request.Context(), tabletopID, userID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "tabletop_not_found", err)
		return
	}
	documents, err := dh.documentService.GenerateAll(c.Request.Context(), tabletop, req.DocumentTypes)
	if err != nil {
		dh.respondGenerationError(c, err)
		return
	}
	RespondOK(c, gin.H{"documents": documents})
}

func (dh *DocumentHandler) Generate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	tabletopID, ok := pathUUID(c, "tabletop_id")
	if !ok {
		return
	}
	dt := types.DocumentType(c.Param("document_type"))
	tabletop, err := dh.tabletopService.Get(c.Request.Context(), tabletopID, userID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "tabletop_not_found", err)
		return
	}
	document, err := dh.documentService.Generate(c.Request.Context(), tabletop, dt)
	if err != nil {
		dh.respondGenerationError(c, err)
		return
	}
	RespondOK(c, document)
}

func (dh *DocumentHandler) Get(c *gin.Context) {
	document, ok := dh.loadOwnedDocument(c)
	if !ok {
		return
	}
	RespondOK(c, document)
}

func (dh *DocumentHandler) Download(c *gin.Context) {
	document, ok := dh.loadOwnedDocument(c)
	if !ok {
		return
	}
	if document.Status != types.DocumentStatusCompleted || document.PDFFilePath == "" {
		RespondError(c, http.StatusConflict, "document_not_ready", fmt.Errorf("document has no rendered file"))
		return
	}
	if _, err := os.Stat(document.PDFFilePath); err != nil {
		RespondError(c, http.StatusNotFound, "file_missing", fmt.Errorf("rendered file is no longer available"))
		return
	}
	c.FileAttachment(document.PDFFilePath, document.DocumentType.HumanizedLabel()+".pdf")
}

func (dh *DocumentHandler) Regenerate(c *gin.Context) {
	document, ok := dh.loadOwnedDocument(c)
	if !ok {
		return
	}
	regenerated, err := dh.documentService.Regenerate(c.Request.Context(), document)
	if err != nil {
		dh.respondGenerationError(c, err)
		return
	}
	RespondOK(c, regenerated)
}

func (dh *DocumentHandler) Delete(c *gin.Context) {
	document, ok := dh.loadOwnedDocument(c)
	if !ok {
		return
	}
	if err := dh.documentService.Delete(c.Request.Context(), document); err != nil {
		RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"message": "document deleted"})
}

// loadOwnedDocument resolves the :document_id path param and enforces that the
// caller owns the tabletop the document belongs to.
func (dh *DocumentHandler) loadOwnedDocument(c *gin.Context) (*types.Document, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	tabletopID, ok := pathUUID(c, "tabletop_id")
	if !ok {
		return nil, false
	}
	documentID, ok := pathUUID(c, "document_id")
	if !ok {
		return nil, false
	}
	if _, err := dh.tabletopService.Get(c.Request.Context(), tabletopID, userID); err != nil {
		RespondError(c, http.StatusNotFound, "tabletop_not_found", err)
		return nil, false
	}
	document, err := dh.documentRepo.GetByID(c.Request.Context(), nil, documentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_failed", err)
		return nil, false
	}
	if document == nil || document.TabletopID != tabletopID {
		RespondError(c, http.StatusNotFound, "document_not_found", fmt.Errorf("document not found"))
		return nil, false
	}
	return document, true
}

func (dh *DocumentHandler) respondGenerationError(c *gin.Context, err error) {
	var incomplete *services.IncompleteTabletopError
	switch {
	case errors.As(err, &incomplete):
		RespondError(c, http.StatusBadRequest, "tabletop_incomplete", err)
	case errors.Is(err, agents.ErrUnregisteredDocumentType):
		RespondError(c, http.StatusBadRequest, "unknown_document_type", err)
	default:
		RespondError(c, http.StatusInternalServerError, "generation_failed", err)
	}
}
