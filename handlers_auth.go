package main

import (
	"net/http"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/models"
	"github.com/defensoria/siri-backend/utils"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}

		user, err := models.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		token, err := utils.JwtGenerate(user.ID, user.Username, user.IsSuperuser)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// meHandler answers who the caller is: user, client, and the stock the
// client pulls from.
func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userId, ok := utils.GetUserIdFromContext(ctx)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		client, err := models.GetClientByUserId(ctx, userId)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
			return
		}

		var categories []*models.Category
		if client.Stock != nil {
			categories, err = models.ListCategoriesBySector(ctx, client.Stock.SectorId)
			if err != nil {
				respondError(c, err)
				return
			}
		}

		stockItems, err := models.ListStockItems(ctx, &client.StockId, nil)
		if err != nil {
			respondError(c, err)
			return
		}

		orders, err := models.Paginate[models.Order](
			models.OrdersQuery(ctx, &client.ID, nil), pageNumber(c), pageSize(), c.Request.URL.Path)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"client":      client,
			"categories":  categories,
			"stock_items": stockItems,
			"orders":      orders,
		})
	}
}

type emailRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// emailHandler broadcasts a message to every client email on file.
func emailHandler(mailer *utils.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req emailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "subject and message are required"})
			return
		}

		recipients, err := models.ListClientEmails(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if len(recipients) == 0 {
			c.JSON(http.StatusOK, gin.H{"sent": 0})
			return
		}

		if err := mailer.Send(recipients, req.Subject, req.Message); err != nil {
			logger := config.GetLogger()
			config.LogError(logger, "handlers_auth.go", "emailHandler", "broadcast", len(recipients), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send email"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sent": len(recipients)})
	}
}
