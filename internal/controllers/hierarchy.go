package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gl-setup/internal/apperrors"
	"gl-setup/internal/cache"
	"gl-setup/internal/hierarchy"
	"gl-setup/internal/rename"
	"gl-setup/internal/treedoc"
	"gl-setup/internal/verification"
	"gl-setup/models"
)

const yamlContentType = "application/yaml; charset=utf-8"

// HierarchyController serves the hierarchy document and rename operations
// of one ledger.
type HierarchyController struct {
	Hierarchy *hierarchy.Engine
	Renamer   *rename.Engine
	Documents cache.DocumentCache
	Cache     cache.Invalidator
	// DefaultHierarchy is used when the request names none.
	DefaultHierarchy string
	Log              *zap.Logger
}

type renameRequest struct {
	OldCode string `json:"oldCode"`
	NewCode string `json:"newCode"`
}

type deletableResponse struct {
	Deletable    bool                 `json:"deletable"`
	Verification verification.Results `json:"verification"`
}

func (h HierarchyController) target(c *gin.Context) (int, models.NodeKind, error) {
	ledger, err := strconv.Atoi(c.Param("ledger"))
	if err != nil {
		return 0, "", apperrors.NewInvalidInputError("ledger must be a number", err)
	}
	kind, err := models.ParseNodeKind(c.Param("kind"))
	if err != nil {
		return 0, "", apperrors.NewInvalidInputError(err.Error(), nil)
	}
	return ledger, kind, nil
}

func (h HierarchyController) hierarchyName(c *gin.Context) string {
	if name := strings.TrimSpace(c.Query("hierarchy")); name != "" {
		return name
	}
	return h.DefaultHierarchy
}

func (h HierarchyController) writeError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("internal error", err)
	}
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"code": appErr.Code, "message": appErr.Message})
		return
	}
	c.JSON(status, gin.H{"code": appErr.Code, "message": appErr.Message, "details": appErr.Details})
}

// verificationStatus maps a finished operation to its HTTP status.
func verificationStatus(done bool, vr verification.Results) int {
	switch {
	case done:
		return http.StatusOK
	case vr.Retryable():
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// Export writes the hierarchy as a YAML tree document.
func (h HierarchyController) Export(c *gin.Context) {
	ledger, kind, err := h.target(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	name := h.hierarchyName(c)
	ctx := c.Request.Context()

	doc, hit, err := h.Documents.GetDocument(ctx, ledger, kind, name)
	if err != nil {
		h.Log.Warn("document cache read failed", zap.Int("ledger", ledger), zap.Error(err))
	}
	if hit {
		c.Data(http.StatusOK, yamlContentType, doc)
		return
	}

	root, err := h.Hierarchy.Export(ctx, ledger, kind, name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	doc, err = treedoc.Marshal(root)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.Documents.PutDocument(ctx, ledger, kind, name, doc); err != nil {
		h.Log.Warn("document cache write failed", zap.Int("ledger", ledger), zap.Error(err))
	}
	c.Data(http.StatusOK, yamlContentType, doc)
}

// Import replaces the hierarchy with the YAML document in the request body.
func (h HierarchyController) Import(c *gin.Context) {
	ledger, kind, err := h.target(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	res, err := h.Hierarchy.Import(c.Request.Context(), ledger, kind, h.hierarchyName(c), c.Request.Body)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if res.Committed {
		cache.Notify(c.Request.Context(), h.Cache, h.Log, ledger, res.Invalidated)
	}
	c.JSON(verificationStatus(res.Committed, res.Verification), res)
}

func (h HierarchyController) Rename(c *gin.Context) {
	ledger, kind, err := h.target(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	var body renameRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		h.writeError(c, apperrors.NewInvalidInputError("invalid rename request", err))
		return
	}
	res, err := h.Renamer.RenameCode(c.Request.Context(), ledger, kind, strings.TrimSpace(body.OldCode), strings.TrimSpace(body.NewCode))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if res.Renamed {
		cache.Notify(c.Request.Context(), h.Cache, h.Log, ledger, res.Invalidated)
	}
	c.JSON(verificationStatus(res.Renamed, res.Verification), res)
}

// Deletable reports whether a node could be deleted without breaking
// references. It always answers 200 once the node was found.
func (h HierarchyController) Deletable(c *gin.Context) {
	ledger, kind, err := h.target(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	vr, err := h.Hierarchy.CheckDeletable(c.Request.Context(), ledger, kind, c.Param("code"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if vr == nil {
		vr = verification.Results{}
	}
	c.JSON(http.StatusOK, deletableResponse{Deletable: vr.IsEmptyOrOnlyNonCritical(), Verification: vr})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
