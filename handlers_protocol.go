package main

import (
	"net/http"

	"github.com/defensoria/siri-backend/models"
	"github.com/gin-gonic/gin"
)

func createProtocolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProtocol
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateProtocol(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func updateProtocolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var input models.NewProtocol
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.UpdateProtocol(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteProtocolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteProtocol(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getProtocolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.GetProtocol(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listProtocolsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListProtocols(c.Request.Context(),
			queryInt(c, "supplier_id"), queryInt(c, "category_id"), queryString(c, "code"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createProtocolItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProtocolItem
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateProtocolItem(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func updateProtocolItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var input models.NewProtocolItem
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.UpdateProtocolItem(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteProtocolItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteProtocolItem(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getProtocolItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.GetProtocolItem(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listProtocolItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListProtocolItems(c.Request.Context(),
			queryInt(c, "protocol_id"), queryInt(c, "product_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createProtocolWithdrawalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProtocolWithdrawal
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateProtocolWithdrawal(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func deleteProtocolWithdrawalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteProtocolWithdrawal(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getProtocolWithdrawalHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.GetProtocolWithdrawal(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listProtocolWithdrawalsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListProtocolWithdrawals(c.Request.Context(), queryInt(c, "protocol_item_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewInvoice
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateInvoice(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func updateInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var input models.NewInvoice
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.UpdateInvoice(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteInvoice(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.GetInvoice(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListInvoices(c.Request.Context(),
			queryInt(c, "supplier_id"), queryInt(c, "public_defense_id"), queryString(c, "code"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createBiddingExemptionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewBiddingExemption
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateBiddingExemption(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func deleteBiddingExemptionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteBiddingExemption(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listBiddingExemptionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListBiddingExemptions(c.Request.Context(),
			queryInt(c, "product_id"), queryInt(c, "invoice_id"), queryInt(c, "stock_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}
