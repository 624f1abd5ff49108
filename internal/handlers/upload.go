// internal/handlers/upload.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/luxe-clothing/storefront/internal/i18n"
	"github.com/luxe-clothing/storefront/internal/services"
	"github.com/luxe-clothing/storefront/internal/utils"
)

type UploadHandler struct {
	storageService *services.StorageService
	maxFiles       int
}

func NewUploadHandler(storageService *services.StorageService, maxFiles int) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
		maxFiles:       maxFiles,
	}
}

// POST /api/admin/upload/image
func (h *UploadHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileMissing), nil)
		return
	}

	result, err := h.storageService.UploadImage(fileHeader, h.storageService.ProductImageOptions())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"image":   result,
	})
}

// POST /api/admin/upload/images
//
// The batch is all or nothing: when one file is rejected the files already
// stored for this request are removed again.
func (h *UploadHandler) UploadImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileMissing), nil)
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileMissing), nil)
		return
	}
	if h.maxFiles > 0 && len(files) > h.maxFiles {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileTooMany, h.maxFiles), nil)
		return
	}

	options := h.storageService.ProductImageOptions()
	images := make([]*services.UploadResult, 0, len(files))

	for _, fileHeader := range files {
		result, err := h.storageService.UploadImage(fileHeader, options)
		if err != nil {
			h.discard(images)
			respondError(c, err)
			return
		}
		images = append(images, result)
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFilesUploadSuccess),
		"images":  images,
	})
}

// DELETE /api/admin/upload/image/:filename
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.storageService.DeleteImage(c.Param("filename")); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileDeleted),
	})
}

func (h *UploadHandler) discard(images []*services.UploadResult) {
	for _, img := range images {
		if err := h.storageService.DeleteImage(img.Filename); err != nil {
			logrus.WithError(err).WithField("filename", img.Filename).Warn("Failed to remove partially uploaded image")
		}
	}
}
