package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"pecas/internal/model"
	"pecas/internal/repository"
	"pecas/internal/service"

	"github.com/gin-gonic/gin"
)

var codePathRe = regexp.MustCompile(`^\d{4}-\d{3}-\d{4}$`)

// CatalogHandler handles direct catalog lookups
type CatalogHandler struct {
	repo         *repository.PostgresRepository
	defaultLimit int
	maxLimit     int
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(repo *repository.PostgresRepository, defaultLimit, maxLimit int) *CatalogHandler {
	return &CatalogHandler{
		repo:         repo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// GetProduct handles GET /api/v1/products/:code
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if !codePathRe.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid material code, expected dddd-ddd-dddd"})
		return
	}

	part, err := h.repo.GetPartByCode(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed: " + err.Error()})
		return
	}
	if part == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Part not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"part":            part,
		"price_formatted": service.FormatBRL(part.PrecoReal),
	})
}

// GetCompatible handles GET /api/v1/compatible/:model
func (h *CatalogHandler) GetCompatible(c *gin.Context) {
	modelName := strings.TrimSpace(c.Param("model"))
	if modelName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Model is required"})
		return
	}

	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	parts, err := h.repo.CompatibleParts(c.Request.Context(), modelName, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"model": strings.ToUpper(modelName),
		"total": len(parts),
		"parts": parts,
	})
}

// querySuggestions are example questions surfaced to a client UI before the
// customer has typed anything useful.
var querySuggestions = []string{
	"filtro de ar para MS162",
	"carburador da FS221",
	"corrente para motosserra MS250",
	"tampa do tanque de combustível",
	"preço da peça 4147-141-0300",
}

// Suggest handles GET /api/v1/suggest
func (h *CatalogHandler) Suggest(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	matches := querySuggestions
	if query != "" {
		matches = nil
		lower := strings.ToLower(query)
		for _, s := range querySuggestions {
			if strings.Contains(strings.ToLower(s), lower) {
				matches = append(matches, s)
			}
		}
	}

	c.JSON(http.StatusOK, model.SuggestResponse{
		Query:       query,
		Suggestions: matches,
	})
}
