package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/models"
	"github.com/defensoria/siri-backend/utils"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type uploadSignRequest struct {
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	Size       int64  `json:"size"`
	EntityType string `json:"entityType"`
	EntityID   int    `json:"entityId"`
}

type uploadCompleteRequest struct {
	ObjectKey  string `json:"objectKey"`
	EntityType string `json:"entityType"`
	EntityID   int    `json:"entityId"`
	// accountant reports are keyed by month, not id
	Month string `json:"month"`
}

type uploadSignResponse struct {
	UploadURL string            `json:"uploadUrl"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	ObjectKey string            `json:"objectKey"`
	AccessURL string            `json:"accessUrl"`
	ExpiresAt string            `json:"expiresAt"`
}

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var attachmentMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
	"image/jpeg": true,
	"image/png":  true,
}

// uploadEntities maps the entityType wire value to the object key prefix.
var uploadEntities = map[string]string{
	"protocol":          "protocols",
	"invoice":           "invoices",
	"order":             "confirm-order",
	"receiving_report":  "receiving-reports",
	"dispatch_report":   "dispatch-reports",
	"materials_order":   "materials-orders",
	"accountant_report": "accountant-reports",
}

func signUploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		requestID := requestIDFromHeaders(c)

		var req uploadSignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		if req.FileName == "" || req.MimeType == "" || req.Size <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fileName, mimeType and size are required"})
			return
		}
		if req.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}
		if !attachmentMimeTypes[req.MimeType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
			return
		}

		prefix, ok := uploadEntities[strings.ToLower(strings.TrimSpace(req.EntityType))]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entity type"})
			return
		}

		ext := strings.ToLower(filepath.Ext(req.FileName))
		if ext == "" {
			ext = extensionFromMimeType(req.MimeType)
		}
		if ext == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file extension is required"})
			return
		}

		if utils.GetStorageProvider() != utils.StorageProviderGCS {
			c.JSON(http.StatusBadRequest, gin.H{"error": "storage provider not supported"})
			return
		}

		objectKey := path.Join(prefix, uuid.New().String()+ext)
		signed, err := utils.SignUpload(c.Request.Context(), objectKey, req.MimeType, 15*time.Minute)
		if err != nil {
			logUploadError(logger, err, utils.GetStorageProvider(), requestID)
			message := "failed to sign upload"
			if !strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
				message = fmt.Sprintf("failed to sign upload: %v", err)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": message})
			return
		}

		logger.WithFields(logrus.Fields{
			"entity_type": req.EntityType,
			"mime_type":   req.MimeType,
			"size":        req.Size,
			"object_key":  objectKey,
		}).Info("[upload.sign]")

		c.JSON(http.StatusOK, gin.H{
			"data": uploadSignResponse{
				UploadURL: signed.UploadURL,
				Method:    signed.Method,
				Headers:   signed.Headers,
				ObjectKey: signed.ObjectKey,
				AccessURL: signed.AccessURL,
				ExpiresAt: signed.ExpiresAt.UTC().Format(time.RFC3339),
			},
		})
	}
}

// completeUploadHandler records the uploaded object on its owning record.
func completeUploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		requestID := requestIDFromHeaders(c)

		var req uploadCompleteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		if req.ObjectKey == "" || strings.Contains(req.ObjectKey, "..") || strings.HasPrefix(req.ObjectKey, "/") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid object key"})
			return
		}

		entity := strings.ToLower(strings.TrimSpace(req.EntityType))
		prefix, ok := uploadEntities[entity]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown entity type"})
			return
		}
		if !strings.HasPrefix(req.ObjectKey, prefix+"/") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "object key does not match entity type"})
			return
		}

		// scanned documents arrive as photos; keep a small preview next to them
		var thumbnailURL string
		if isImageObject(req.ObjectKey) {
			thumbnailKey, err := createThumbnail(c.Request.Context(), req.ObjectKey)
			if err != nil {
				logUploadError(logger, err, utils.GetStorageProvider(), requestID)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate thumbnail"})
				return
			}
			thumbnailURL = utils.BuildObjectAccessURL(thumbnailKey)
		}

		fileURL := utils.BuildObjectAccessURL(req.ObjectKey)
		result, err := attachFile(c.Request.Context(), entity, req, fileURL)
		if err != nil {
			logUploadError(logger, err, utils.GetStorageProvider(), requestID)
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"object_key":  req.ObjectKey,
			"entity_type": entity,
			"status":      "completed",
		}).Info("[upload.complete]")

		c.JSON(http.StatusOK, gin.H{"data": result, "thumbnailUrl": thumbnailURL})
	}
}

func isImageObject(objectKey string) bool {
	switch strings.ToLower(path.Ext(objectKey)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func createThumbnail(ctx context.Context, objectKey string) (string, error) {
	client, err := utils.GetGCSClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	bucket := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
	if bucket == "" {
		return "", errors.New("GCS_BUCKET is required")
	}

	reader, err := client.Bucket(bucket).Object(objectKey).NewReader(ctx)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, maxUploadSizeBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > maxUploadSizeBytes {
		return "", errors.New("file size exceeds 5MB limit")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		return "", err
	}

	thumbnailKey := path.Join(path.Dir(objectKey), "thumbnails", path.Base(objectKey))
	if err := utils.UploadBytesToGCS(ctx, thumbnailKey, buf.Bytes(), "image/jpeg"); err != nil {
		return "", err
	}
	return thumbnailKey, nil
}

func attachFile(ctx context.Context, entity string, req uploadCompleteRequest, fileURL string) (interface{}, error) {
	if entity == "accountant_report" {
		if req.Month == "" {
			return nil, errors.New("month is required")
		}
		return models.SaveAccountantReportFile(ctx, req.Month, fileURL)
	}
	if req.EntityID <= 0 {
		return nil, errors.New("entityId is required")
	}
	switch entity {
	case "protocol":
		return models.AttachProtocolFile(ctx, req.EntityID, fileURL)
	case "invoice":
		return models.AttachInvoiceFile(ctx, req.EntityID, fileURL)
	case "order":
		return models.AttachOrderFile(ctx, req.EntityID, fileURL)
	case "receiving_report":
		return models.AttachReceivingReportFile(ctx, req.EntityID, fileURL)
	case "dispatch_report":
		return models.AttachDispatchReportFile(ctx, req.EntityID, fileURL)
	case "materials_order":
		return models.AttachMaterialsOrderFile(ctx, req.EntityID, fileURL)
	}
	return nil, errors.New("unknown entity type")
}

func uploadObjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		objectKey := strings.TrimSpace(c.Query("key"))
		if objectKey == "" || strings.Contains(objectKey, "..") || strings.HasPrefix(objectKey, "/") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key"})
			return
		}

		if utils.GetStorageProvider() != utils.StorageProviderGCS {
			c.JSON(http.StatusBadRequest, gin.H{"error": "storage provider not supported"})
			return
		}

		client, err := utils.GetGCSClient(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage client error"})
			return
		}
		defer client.Close()

		bucket := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
		if bucket == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "GCS_BUCKET is required"})
			return
		}
		obj := client.Bucket(bucket).Object(objectKey)
		attrs, err := obj.Attrs(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
			return
		}
		reader, err := obj.NewReader(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
			return
		}
		defer reader.Close()

		if attrs != nil && attrs.ContentType != "" {
			c.Writer.Header().Set("Content-Type", attrs.ContentType)
		}
		if attrs != nil && attrs.Size > 0 {
			c.Writer.Header().Set("Content-Length", fmt.Sprintf("%d", attrs.Size))
		}
		c.Status(http.StatusOK)
		_, _ = io.Copy(c.Writer, reader)
	}
}

func extensionFromMimeType(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "application/pdf":
		return ".pdf"
	case "application/msword":
		return ".doc"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return ".docx"
	case "application/vnd.ms-excel":
		return ".xls"
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return ".xlsx"
	default:
		return ""
	}
}

func logUploadError(logger *logrus.Logger, err error, provider string, requestID string) {
	logger.WithFields(logrus.Fields{
		"error":      err.Error(),
		"provider":   provider,
		"request_id": requestID,
	}).Error("[upload.error]")
}

func requestIDFromHeaders(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader("X-Correlation-Id")); id != "" {
		return id
	}
	if id := strings.TrimSpace(c.GetHeader("X-Request-Id")); id != "" {
		return id
	}
	return fmt.Sprintf("upload-%d", time.Now().UnixNano())
}
