package claims

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"claim-backend/internal/shared/server/respond"
)

const maxUploadBytes = 5 << 20

// Handler exposes the claim pipeline over HTTP.
type Handler struct {
	orchestrator *Orchestrator
}

// NewHandler constructs an HTTP handler around the orchestrator.
func NewHandler(o *Orchestrator) *Handler {
	return &Handler{orchestrator: o}
}

// RegisterRoutes attaches the claim routes to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/process-claim", h.processClaim)
}

// processClaim validates the upload before any pipeline stage runs: a single
// non-PDF or oversize file rejects the whole request with 400 and no
// extraction or LLM call is made.
func (h *Handler) processClaim(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart form", nil)
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one file is required in the files field", nil)
		return
	}

	for _, fh := range headers {
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			respond.Error(c, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("Invalid file type: %s. Only PDF files are supported.", fh.Filename), nil)
			return
		}
		if fh.Size > maxUploadBytes {
			respond.Error(c, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("File too large: %s. Limit is %d bytes.", fh.Filename, maxUploadBytes), nil)
			return
		}
	}

	files := make([]RawDocument, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error",
				fmt.Sprintf("failed to read uploaded file %s", fh.Filename), nil)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error",
				fmt.Sprintf("failed to read uploaded file %s", fh.Filename), nil)
			return
		}
		files = append(files, RawDocument{
			Filename: fh.Filename,
			Data:     data,
			Size:     len(data),
		})
	}

	resp := h.orchestrator.ProcessClaim(c.Request.Context(), files)

	c.Set("claimFileCount", len(files))
	c.Set("claimDecisionStatus", string(resp.ClaimDecision.Status))
	respond.OK(c, resp)
}
