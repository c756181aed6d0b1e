package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/storefront-backend/middleware"
	"github.com/yashrajoria/storefront-backend/pkg/apperrors"
	"github.com/yashrajoria/storefront-backend/repository"
	"github.com/yashrajoria/storefront-backend/services"
)

type OrderController struct {
	Orders   repository.OrderRepository
	Shipping *services.ShippingClient
	Logger   *zap.Logger
}

// ListOrders returns the authenticated user's orders, newest first.
func (oc *OrderController) ListOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, err := oc.Orders.FindByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		oc.Logger.Error("Failed to list orders", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "page": page, "limit": limit})
}

// GetOrder returns a single order owned by the authenticated user.
func (oc *OrderController) GetOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID := c.Param("id")

	order, err := oc.Orders.FindByID(c.Request.Context(), orderID)
	if err != nil {
		oc.Logger.Error("Failed to get order", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order"})
		return
	}
	if order == nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// TrackOrder returns the carrier's tracking view for an order's shipment.
func (oc *OrderController) TrackOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orderID := c.Param("id")

	order, err := oc.Orders.FindByID(c.Request.Context(), orderID)
	if err != nil {
		oc.Logger.Error("Failed to get order", zap.String("order_id", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order"})
		return
	}
	if order == nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.ShipmentID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No shipment for this order yet"})
		return
	}

	info, err := oc.Shipping.TrackShipment(c.Request.Context(), order.ShipmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrConfiguration) {
			oc.Logger.Error("Shipping carrier credentials not configured")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Tracking unavailable"})
			return
		}
		oc.Logger.Error("Carrier tracking failed",
			zap.String("order_id", orderID),
			zap.String("shipment_id", order.ShipmentID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch tracking"})
		return
	}

	c.JSON(http.StatusOK, info)
}
