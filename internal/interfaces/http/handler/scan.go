package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/retailscan/backend/internal/application/catalog"
	scanapp "github.com/retailscan/backend/internal/application/scan"
	"github.com/retailscan/backend/internal/domain/scan"
)

// ScanHandler handles barcode resolution and scan history endpoints
type ScanHandler struct {
	BaseHandler
	resolver *scanapp.Resolver
	history  *scanapp.HistoryService
	settings scan.Settings
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(resolver *scanapp.Resolver, history *scanapp.HistoryService, settings scan.Settings) *ScanHandler {
	return &ScanHandler{
		resolver: resolver,
		history:  history,
		settings: settings,
	}
}

// ResolveRequest represents a barcode resolution request
type ResolveRequest struct {
	Barcode string `json:"barcode"`
}

// DraftResponse represents an unpersisted product draft awaiting confirmation
type DraftResponse struct {
	Product      catalogapp.ProductResponse `json:"product"`
	Barcode      string                     `json:"barcode"`
	Source       string                     `json:"source"`
	NotAvailable bool                       `json:"not_available"`
	Diagnostic   string                     `json:"diagnostic,omitempty"`
}

// ResolveResponse is the tagged outcome of a barcode resolution
type ResolveResponse struct {
	Status  string                      `json:"status"` // found | draft
	Product *catalogapp.ProductResponse `json:"product,omitempty"`
	Draft   *DraftResponse              `json:"draft,omitempty"`
}

// Resolve resolves a scanned barcode to a stored product or a draft
func (h *ScanHandler) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	outcome, err := h.resolver.Resolve(c.Request.Context(), req.Barcode, h.settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if outcome.IsFound() {
		product := catalogapp.ToProductResponse(outcome.Found)
		h.Success(c, ResolveResponse{Status: "found", Product: &product})
		return
	}

	draft := outcome.Draft
	h.Success(c, ResolveResponse{
		Status: "draft",
		Draft: &DraftResponse{
			Product:      catalogapp.ToProductResponse(&draft.Product),
			Barcode:      draft.Barcode,
			Source:       string(draft.Source),
			NotAvailable: draft.NotAvailable,
			Diagnostic:   draft.Diagnostic,
		},
	})
}

// History returns the scan history, most recent first
func (h *ScanHandler) History(c *gin.Context) {
	entries, err := h.history.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// ClearHistory removes all scan history entries
func (h *ScanHandler) ClearHistory(c *gin.Context) {
	if err := h.history.Clear(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers scan routes on the given router group
func (h *ScanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	scans := rg.Group("/scan")
	{
		scans.POST("/resolve", h.Resolve)
		scans.GET("/history", h.History)
		scans.DELETE("/history", h.ClearHistory)
	}
}
