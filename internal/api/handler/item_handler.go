package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/api/dto"
	"storefront/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
)

const requestTimeout = 5 * time.Second

type ItemHandler struct {
	svc service.ItemService
}

func NewItemHandler(svc service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:item_id", h.Get)
	rg.GET("/user/:user_id", h.ListByOwner)
	rg.GET("/search/query", h.Search)
	rg.GET("/recent/:days", h.Recent)
	rg.GET("/stats/:user_id", h.UserStatistics)
	rg.GET("/expensive/list", h.Expensive)
	rg.GET("/owners/list", h.WithOwner)
	rg.POST("", h.Create)
	rg.PUT("/:item_id", h.Update)
	rg.PUT("/bulk/availability", h.BulkAvailability)
	rg.DELETE("/:item_id", h.Delete)
}

// parsePagination reads skip/limit query parameters. skip defaults to 0,
// limit defaults to 100 and is clamped to [1,100].
func parsePagination(c *gin.Context) (int, int) {
	skip := 0
	limit := 100

	if s := c.Query("skip"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 0 {
			skip = parsed
		}
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			if parsed < 1 {
				parsed = 1
			}
			if parsed > 100 {
				parsed = 100
			}
			limit = parsed
		}
	}
	return skip, limit
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func (h *ItemHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	skip, limit := parsePagination(c)

	list, err := h.svc.List(ctx, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromItemsToResponse(list))
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	item, err := h.svc.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromItemToResponse(*item))
}

func (h *ItemHandler) ListByOwner(c *gin.Context) {
	ownerID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.svc.GetByOwner(ctx, ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromItemsToResponse(list))
}

func (h *ItemHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}

	var minPrice, maxPrice *float64
	if s := strings.TrimSpace(c.Query("min_price")); s != "" {
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price parameter"})
			return
		}
		minPrice = &parsed
	}
	if s := strings.TrimSpace(c.Query("max_price")); s != "" {
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price parameter"})
			return
		}
		maxPrice = &parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.svc.Search(ctx, q, minPrice, maxPrice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromItemsToResponse(list))
}

func (h *ItemHandler) Recent(c *gin.Context) {
	days, err := strconv.Atoi(c.Param("days"))
	if err != nil || days < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid days parameter"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.svc.Recent(ctx, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromItemsToResponse(list))
}

func (h *ItemHandler) UserStatistics(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	stats, err := h.svc.UserStatistics(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrOwnerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.UserStatsResponse{
		UserID:         userID,
		TotalItems:     stats.TotalItems,
		AvailableItems: stats.AvailableItems,
		TotalValue:     stats.TotalValue,
		AveragePrice:   stats.AveragePrice,
	})
}

func (h *ItemHandler) Expensive(c *gin.Context) {
	threshold := 100.0
	if s := strings.TrimSpace(c.Query("threshold")); s != "" {
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid threshold parameter"})
			return
		}
		threshold = parsed
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.svc.Expensive(ctx, threshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromItemsToResponse(list))
}

func (h *ItemHandler) WithOwner(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.svc.WithOwner(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := make([]dto.ItemWithOwnerResponse, 0, len(list))
	for _, row := range list {
		resp = append(resp, dto.ItemWithOwnerResponse{
			ItemID:        row.ItemID,
			Title:         row.Title,
			Price:         row.Price,
			OwnerUsername: row.OwnerUsername,
			OwnerEmail:    row.OwnerEmail,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ItemHandler) Create(c *gin.Context) {
	ownerID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter is required"})
		return
	}

	var in dto.CreateItemDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	item, err := h.svc.Create(ctx, ownerID, in)
	if err != nil {
		// the FK can still fire if the owner disappears between check and insert
		if errors.Is(err, service.ErrOwnerNotFound) || isPgError(err, pgForeignKeyViolation) {
			c.JSON(http.StatusNotFound, gin.H{"error": "owner not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.FromItemToResponse(*item))
}

func (h *ItemHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var in dto.UpdateItemDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	item, err := h.svc.Update(ctx, id, in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromItemToResponse(*item))
}

func (h *ItemHandler) BulkAvailability(c *gin.Context) {
	var in dto.BulkAvailabilityDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	count, err := h.svc.BulkUpdateAvailability(ctx, in.ItemIDs, *in.IsAvailable)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "availability updated",
		"updated_count": count,
	})
}

func (h *ItemHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	deleted, err := h.svc.Delete(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
