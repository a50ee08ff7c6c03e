package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vault-api/internal/application/ports"
	"vault-api/internal/domain/vault"
	"vault-api/internal/infrastructure/jwt"
	filedto "vault-api/internal/interface/api/rest/dto/vaultfile"
	"vault-api/internal/interface/api/rest/middleware"
	"vault-api/internal/interface/api/rest/validator"
)

type VaultController struct {
	vaultService ports.VaultService
	logger       *zap.Logger
	maxUpload    int64
}

func NewVaultController(
	r *gin.Engine,
	vaultService ports.VaultService,
	logger *zap.Logger,
	jwtService *jwt.Service,
	maxUpload int64,
) *VaultController {
	vc := &VaultController{
		vaultService: vaultService,
		logger:       logger,
		maxUpload:    maxUpload,
	}

	auth := middleware.AuthMiddleware(jwtService)

	r.POST(RouteVaultFiles, auth, vc.UploadHandler)
	r.GET(RouteVaultFiles, auth, vc.ListHandler)
	r.GET(RouteVaultFileDownload, auth, vc.DownloadHandler)
	r.PATCH(RouteVaultFile, auth, vc.UpdateHandler)
	r.DELETE(RouteVaultFile, auth, vc.DeleteHandler)
	r.POST(RouteVaultFileRestore, auth, vc.RestoreHandler)
	r.GET(RouteVaultFileVersions, auth, vc.ListVersionsHandler)
	r.POST(RouteVaultFileVersions, auth, vc.AddVersionHandler)
	r.POST(RouteVaultFilesBulkDelete, auth, vc.BulkDeleteHandler)

	return vc
}

// callerFrom rebuilds the authenticated caller from the claims the auth
// middleware stored on the request.
func callerFrom(c *gin.Context) (vault.Caller, bool) {
	ok, id := validator.IsUUID(c.GetString(middleware.CtxUserID))
	if !ok {
		c.AbortWithStatusJSON(
			http.StatusUnauthorized,
			gin.H{"error": "invalid token subject"},
		)
		return vault.Caller{}, false
	}

	return vault.Caller{ID: id, Role: c.GetString(middleware.CtxUserRole)}, true
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func (vc *VaultController) UploadHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > vc.maxUpload {
		c.JSON(
			http.StatusRequestEntityTooLarge,
			gin.H{"error": fmt.Sprintf("file larger than %d bytes", vc.maxUpload)},
		)
		return
	}

	tags := splitTags(c.PostForm("tags"))
	if errs := validator.ValidateTags(tags); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer src.Close()

	f, err := vc.vaultService.Upload(c.Request.Context(), caller, ports.UploadInput{
		Filename: fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Size:     fh.Size,
		Tags:     tags,
		Content:  src,
	})
	if err != nil {
		respondError(c, vc.logger, "Upload()", err)
		return
	}

	c.JSON(http.StatusCreated, filedto.ToSummary(*f))
}

func (vc *VaultController) ListHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	page, err := validator.ValidatePage(c.Query("page"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": err.Error()},
		)
		return
	}

	files, err := vc.vaultService.List(c.Request.Context(), caller, page)
	if err != nil {
		respondError(c, vc.logger, "List()", err)
		return
	}

	c.JSON(http.StatusOK, filedto.ResponseData{
		Data: filedto.ToSummaries(files),
	})
}

func (vc *VaultController) DownloadHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	ok, id := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	res, err := vc.vaultService.Download(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, vc.logger, "Download()", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Data(http.StatusOK, res.MimeType, res.Content)
}

func (vc *VaultController) UpdateHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	ok, id := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	var req filedto.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateUpdateFile(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	in, err := filedto.ToUpdateInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	f, err := vc.vaultService.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		respondError(c, vc.logger, "Update()", err)
		return
	}

	c.JSON(http.StatusOK, filedto.ToSummary(*f))
}

func (vc *VaultController) DeleteHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	ok, id := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	hard := c.Query("hard") == "true"

	f, err := vc.vaultService.Delete(c.Request.Context(), caller, id, hard)
	if err != nil {
		respondError(c, vc.logger, "Delete()", err)
		return
	}

	c.JSON(http.StatusOK, filedto.ToSummary(*f))
}

func (vc *VaultController) RestoreHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	ok, id := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	f, err := vc.vaultService.Restore(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, vc.logger, "Restore()", err)
		return
	}

	c.JSON(http.StatusOK, filedto.ToSummary(*f))
}

func (vc *VaultController) ListVersionsHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	ok, id := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	files, err := vc.vaultService.ListVersions(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, vc.logger, "ListVersions()", err)
		return
	}

	c.JSON(http.StatusOK, filedto.ResponseData{
		Data: filedto.ToSummaries(files),
	})
}

func (vc *VaultController) AddVersionHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	ok, id := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > vc.maxUpload {
		c.JSON(
			http.StatusRequestEntityTooLarge,
			gin.H{"error": fmt.Sprintf("file larger than %d bytes", vc.maxUpload)},
		)
		return
	}

	tags := splitTags(c.PostForm("tags"))
	if errs := validator.ValidateTags(tags); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer src.Close()

	f, err := vc.vaultService.AddVersion(c.Request.Context(), caller, id, ports.UploadInput{
		Filename: fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Size:     fh.Size,
		Tags:     tags,
		Content:  src,
	})
	if err != nil {
		respondError(c, vc.logger, "AddVersion()", err)
		return
	}

	c.JSON(http.StatusCreated, filedto.ToSummary(*f))
}

func (vc *VaultController) BulkDeleteHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req filedto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	ids, errs := validator.ValidateIDList(req.FileIDs)
	if errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	res, err := vc.vaultService.BulkDelete(c.Request.Context(), caller, ids)
	if err != nil {
		respondError(c, vc.logger, "BulkDelete()", err)
		return
	}

	c.JSON(http.StatusOK, filedto.BulkDeleteResponse{
		Deleted:  res.Deleted,
		NotFound: res.NotFound,
	})
}
