package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vault-api/internal/domain/vaultaudit"
	"vault-api/internal/infrastructure/jwt"
	auditdto "vault-api/internal/interface/api/rest/dto/vaultaudit"
	"vault-api/internal/interface/api/rest/middleware"
	"vault-api/internal/interface/api/rest/validator"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

type AuditController struct {
	auditRepository vaultaudit.Repository
	logger          *zap.Logger
}

// NewAuditController exposes the audit trail to admins.
func NewAuditController(
	r *gin.Engine,
	auditRepository vaultaudit.Repository,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *AuditController {
	ac := &AuditController{
		auditRepository: auditRepository,
		logger:          logger,
	}

	r.GET(RouteVaultAudit, middleware.AuthMiddleware(jwtService), ac.ListHandler)

	return ac
}

func (ac *AuditController) ListHandler(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	if !caller.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	limit, err := validator.ValidateLimit(c.Query("limit"), defaultAuditLimit, maxAuditLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, err := ac.auditRepository.FetchRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, ac.logger, "FetchRecent()", err)
		return
	}

	c.JSON(http.StatusOK, auditdto.ResponseData{
		Data: auditdto.ToResponseEntries(entries),
	})
}
