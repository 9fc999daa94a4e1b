package thoughts

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"thoughts-backend/internal/extract"
	"thoughts-backend/internal/llm"
	"thoughts-backend/internal/shared/server/respond"
)

// 10 MiB cap on imported files.
const maxImportBytes = 10 << 20

// Handler wires HTTP handlers to the thoughts service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches thought routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/thoughts", h.createThought)
	rg.POST("/thoughts/import", h.importThought)
	rg.GET("/thoughts", h.listThoughts)
	rg.GET("/thoughts/:id", h.getThought)
	rg.PUT("/thoughts/:id", h.updateThought)
	rg.POST("/thoughts/:id/reanalyze", h.reanalyzeThought)
	rg.DELETE("/thoughts/:id", h.deleteThought)
}

type createThoughtRequest struct {
	Text        string `json:"text"`
	RequestType string `json:"requestType"`
}

type updateThoughtRequest struct {
	Text string `json:"text"`
}

func (h *Handler) createThought(c *gin.Context) {
	var req createThoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}

	thought, err := h.Svc.Submit(c.Request.Context(), req.Text, llm.ParseRequestType(req.RequestType))
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.Set("thoughtId", thought.ID)
	respond.JSON(c, http.StatusCreated, thought)
}

func (h *Handler) importThought(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "a file upload is required", nil)
		return
	}
	if file.Size > maxImportBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "uploaded file exceeds the 10MB limit", nil)
		return
	}

	f, err := file.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read the uploaded file", nil)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImportBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read the uploaded file", nil)
		return
	}

	text, err := extract.TextFromBytes(c.Request.Context(), data, file.Header.Get("Content-Type"), file.Filename)
	if err != nil {
		respond.Error(c, http.StatusUnprocessableEntity, "extract_failed", "could not extract text from the uploaded file", nil)
		return
	}

	thought, err := h.Svc.Submit(c.Request.Context(), text, llm.ParseRequestType(c.PostForm("requestType")))
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.Set("thoughtId", thought.ID)
	respond.JSON(c, http.StatusCreated, thought)
}

func (h *Handler) listThoughts(c *gin.Context) {
	all, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list thoughts", nil)
		return
	}
	if all == nil {
		all = []SavedThought{}
	}
	respond.OK(c, all)
}

func (h *Handler) getThought(c *gin.Context) {
	thought, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "thought not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch thought", nil)
		return
	}
	respond.OK(c, thought)
}

func (h *Handler) updateThought(c *gin.Context) {
	var req updateThoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}

	thought, err := h.Svc.Edit(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.Set("thoughtId", thought.ID)
	respond.OK(c, thought)
}

func (h *Handler) reanalyzeThought(c *gin.Context) {
	thought, err := h.Svc.Reanalyze(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.Set("thoughtId", thought.ID)
	respond.OK(c, thought)
}

func (h *Handler) deleteThought(c *gin.Context) {
	if err := h.Svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete thought", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondPipelineError maps pipeline failures to the error taxonomy. Nothing
// here is retried; the user retries the action manually.
func respondPipelineError(c *gin.Context, err error) {
	var transportErr *llm.TransportError
	var reqErr *llm.RequestFailedError
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "thought not found", nil)
	case errors.As(err, &transportErr):
		respond.Error(c, http.StatusBadGateway, "transport_error", "Could not reach the analysis service. Please try again.", nil)
	case errors.As(err, &reqErr):
		message := reqErr.Message
		if message == "" {
			message = "Failed to analyze the thoughts"
		}
		respond.Error(c, http.StatusBadGateway, "request_failed", message, nil)
	case errors.Is(err, ErrMalformedResponse):
		respond.Error(c, http.StatusBadGateway, "malformed_response", "Failed to decode the AI response", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze thought", nil)
	}
}
