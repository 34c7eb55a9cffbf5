package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	inventorydomain "github.com/tavolohq/tavolo/internal/inventory/domain"
)

type stockMutationRequest struct {
	Quantity int64  `json:"quantity"`
	Note     string `json:"note"`
}

func (s *Server) CreateInventoryItem(c *gin.Context) {
	var req inventorydomain.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.inventorySvc.CreateItem(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) ListInventory(c *gin.Context) {
	items, err := s.inventorySvc.ListItems(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) GetInventoryItem(c *gin.Context) {
	item, err := s.inventorySvc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) DeleteInventoryItem(c *gin.Context) {
	if err := s.inventorySvc.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) IncreaseStock(c *gin.Context) {
	var req stockMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.inventorySvc.IncreaseStock(c.Request.Context(), c.Param("id"), req.Quantity, req.Note)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) DecreaseStock(c *gin.Context) {
	var req stockMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.inventorySvc.DecreaseStock(c.Request.Context(), c.Param("id"), req.Quantity, req.Note)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) AdjustStock(c *gin.Context) {
	var req stockMutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	item, err := s.inventorySvc.AdjustStock(c.Request.Context(), c.Param("id"), req.Quantity, req.Note)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) GetLowStockItems(c *gin.Context) {
	items, err := s.inventorySvc.GetLowStockItems(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) ListInventoryLogs(c *gin.Context) {
	entries, err := s.inventorySvc.ListLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": entries})
}
