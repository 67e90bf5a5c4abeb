package main

import (
	"net/http"

	"github.com/defensoria/siri-backend/models"
	"github.com/gin-gonic/gin"
)

func createStockItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewStockItem
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateStockItem(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func updateStockItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var input models.NewStockItem
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.UpdateStockItem(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteStockItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteStockItem(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getStockItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.GetStockItem(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listStockItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListStockItems(c.Request.Context(),
			queryInt(c, "stock_id"), queryInt(c, "product_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createStockEntryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewStockEntry
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateStockEntry(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func deleteStockEntryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteStockEntry(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getStockEntryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.GetStockEntry(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listStockEntriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListStockEntries(c.Request.Context(),
			queryInt(c, "stock_item_id"), queryInt(c, "invoice_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createStockWithdrawalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewStockWithdrawal
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateStockWithdrawal(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func deleteStockWithdrawalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteStockWithdrawal(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getStockWithdrawalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.GetStockWithdrawal(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listStockWithdrawalsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListStockWithdrawals(c.Request.Context(), queryInt(c, "stock_item_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}
