package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vault-api/internal/application/ports"
	"vault-api/internal/infrastructure/jwt"
	sharedto "vault-api/internal/interface/api/rest/dto/vaultshare"
	"vault-api/internal/interface/api/rest/middleware"
	"vault-api/internal/interface/api/rest/validator"
)

type ShareController struct {
	shareService ports.ShareService
	logger       *zap.Logger
}

// NewShareController wires the share endpoints. Resolve and the shared
// download are public by design: a valid token is the whole credential.
func NewShareController(
	r *gin.Engine,
	shareService ports.ShareService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *ShareController {
	sc := &ShareController{
		shareService: shareService,
		logger:       logger,
	}

	auth := middleware.AuthMiddleware(jwtService)

	r.POST(RouteVaultShares, auth, sc.CreateHandler)
	r.GET(RouteVaultShares, auth, sc.ListHandler)
	r.GET(RouteVaultShare, sc.ResolveHandler)
	r.GET(RouteVaultShareDownload, sc.DownloadHandler)
	r.DELETE(RouteVaultShare, auth, sc.RevokeHandler)
	r.POST(RouteVaultSharesBulkRevoke, auth, sc.BulkRevokeHandler)

	return sc
}

func (sc *ShareController) CreateHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req sharedto.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if errs := validator.ValidateCreateShare(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	in, err := sharedto.ToCreateInput(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	s, err := sc.shareService.Create(c.Request.Context(), caller, in)
	if err != nil {
		respondError(c, sc.logger, "CreateShare()", err)
		return
	}

	c.JSON(http.StatusCreated, sharedto.ToResponseShare(*s))
}

func (sc *ShareController) ListHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	shares, err := sc.shareService.ListOwned(c.Request.Context(), caller)
	if err != nil {
		respondError(c, sc.logger, "ListShares()", err)
		return
	}

	c.JSON(http.StatusOK, sharedto.ResponseData{
		Data: sharedto.ToResponseShares(shares),
	})
}

func (sc *ShareController) ResolveHandler(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	res, err := sc.shareService.Resolve(c.Request.Context(), token)
	if err != nil {
		respondError(c, sc.logger, "ResolveShare()", err)
		return
	}

	c.JSON(http.StatusOK, sharedto.ToResolution(*res.Share, res.Files))
}

func (sc *ShareController) DownloadHandler(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	res, err := sc.shareService.DownloadShared(c.Request.Context(), token, fileID)
	if err != nil {
		respondError(c, sc.logger, "DownloadShared()", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	c.Data(http.StatusOK, res.MimeType, res.Content)
}

func (sc *ShareController) RevokeHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	if err := sc.shareService.Revoke(c.Request.Context(), caller, token); err != nil {
		respondError(c, sc.logger, "RevokeShare()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (sc *ShareController) BulkRevokeHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req sharedto.BulkRevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}
	if len(req.Tokens) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tokens is required"})
		return
	}

	res, err := sc.shareService.BulkRevoke(c.Request.Context(), caller, req.Tokens)
	if err != nil {
		respondError(c, sc.logger, "BulkRevoke()", err)
		return
	}

	c.JSON(http.StatusOK, sharedto.BulkRevokeResponse{
		Revoked:  res.Revoked,
		NotFound: res.NotFound,
	})
}
