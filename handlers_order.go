package main

import (
	"fmt"
	"net/http"

	"github.com/defensoria/siri-backend/models"
	"github.com/defensoria/siri-backend/models/reports"
	"github.com/defensoria/siri-backend/utils"
	"github.com/gin-gonic/gin"
)

func createOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateOrder(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func deleteOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteOrder(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.GetOrder(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		clientId := queryInt(c, "client_id")

		// non-superusers see their own sector's orders only
		if isSuperuser, _ := utils.GetIsSuperuserFromContext(ctx); !isSuperuser {
			if userId, ok := utils.GetUserIdFromContext(ctx); ok {
				if client, err := models.GetClientByUserId(ctx, userId); err == nil {
					clientId = &client.ID
				}
			}
		}

		query := models.OrdersQuery(ctx, clientId, queryBool(c, "is_sent"))
		page, err := models.Paginate[models.Order](query, pageNumber(c), pageSize(), c.Request.URL.Path)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func createOrderItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var inputs []*models.NewOrderItem
		if err := c.ShouldBindJSON(&inputs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(inputs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one item is required"})
			return
		}
		results, err := models.CreateOrderItems(c.Request.Context(), inputs)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, results)
	}
}

// fulfillOrderItemHandler is the warehouse operator's update of an order
// line; the quantity movement happens in the models command.
func fulfillOrderItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var input models.FulfillOrderItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.FulfillOrderItem(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteOrderItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteOrderItem(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listOrderItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// order_id accepts a comma separated list so the warehouse screen
		// loads several orders at once
		results, err := models.ListOrderItems(c.Request.Context(),
			queryIntList(c, "order_id"), queryInt(c, "product_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func createSupplierOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSupplierOrder
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateSupplierOrder(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

type updateSupplierOrderRequest struct {
	Received     *bool   `json:"received"`
	DeliveryDate *string `json:"delivery_date"`
}

func updateSupplierOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var req updateSupplierOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.UpdateSupplierOrder(c.Request.Context(), id, req.Received, req.DeliveryDate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func deleteSupplierOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteSupplierOrder(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getSupplierOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.GetSupplierOrder(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listSupplierOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := models.SupplierOrdersQuery(c.Request.Context(),
			queryInt(c, "supplier_id"), queryInt(c, "protocol_id"),
			queryInt(c, "public_defense_id"), queryBool(c, "received"))
		page, err := models.Paginate[models.SupplierOrder](query, pageNumber(c), pageSize(), c.Request.URL.Path)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func createSupplierOrderItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSupplierOrderItem
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.CreateSupplierOrderItem(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func deleteSupplierOrderItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteSupplierOrderItem(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// listSupplierOrderItemsHandler doubles as the materials order generator:
// supplier_id, category_id, initial_date and final_date together consolidate
// the matching items into a purchase document. Without that full set it is a
// plain list.
func listSupplierOrderItemsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		supplierId := queryInt(c, "supplier_id")
		categoryId := queryInt(c, "category_id")
		initialDate := queryString(c, "initial_date")
		finalDate := queryString(c, "final_date")

		anyFilter := supplierId != nil || categoryId != nil || initialDate != nil || finalDate != nil
		allFilters := supplierId != nil && categoryId != nil && initialDate != nil && finalDate != nil

		if !anyFilter {
			results, err := models.ListSupplierOrderItems(c.Request.Context(),
				queryInt(c, "supplier_order_id"), queryInt(c, "product_id"))
			if err != nil {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, results)
			return
		}

		if !allFilters {
			respondError(c, models.ErrInvalidQueryParameters)
			return
		}

		from, err := utils.ParseDate(*initialDate)
		if err != nil {
			respondError(c, models.ErrInvalidQueryParameters)
			return
		}
		to, err := utils.ParseDate(*finalDate)
		if err != nil || to.Before(from) {
			respondError(c, models.ErrInvalidQueryParameters)
			return
		}

		result, err := reports.GenerateMaterialsOrder(c.Request.Context(), *supplierId, *categoryId, from, to.AddDate(0, 0, 1))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func listMaterialsOrdersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := models.ListMaterialsOrders(c.Request.Context(),
			queryInt(c, "supplier_id"), queryInt(c, "category_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

func exportMaterialsOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := models.GetMaterialsOrder(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		rows, err := reports.GetMaterialsOrderRows(c.Request.Context(), order)
		if err != nil {
			respondError(c, err)
			return
		}
		exporters := make([]reports.ExcelExporter, len(rows))
		for i, row := range rows {
			exporters[i] = *row
		}
		writeExcelAttachment(c, fmt.Sprintf("materials-order-%d.xlsx", order.ID))
		if err := reports.WriteExcel(c.Writer, reports.MaterialsOrderHeadings, exporters); err != nil {
			respondError(c, err)
		}
	}
}

func deleteMaterialsOrderHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := paramId(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := models.DeleteMaterialsOrder(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
