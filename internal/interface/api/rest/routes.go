package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// files
	RouteVaultFiles           = RouteApiV1 + "/vault/files"
	RouteVaultFilesBulkDelete = RouteVaultFiles + "/bulk-delete"
	RouteVaultFile            = RouteVaultFiles + "/:file_id"
	RouteVaultFileDownload    = RouteVaultFile + "/download"
	RouteVaultFileRestore     = RouteVaultFile + "/restore"
	RouteVaultFileVersions    = RouteVaultFile + "/versions"

	// shares
	RouteVaultShares           = RouteApiV1 + "/vault/shares"
	RouteVaultSharesBulkRevoke = RouteVaultShares + "/bulk-revoke"
	RouteVaultShare            = RouteVaultShares + "/:token"
	RouteVaultShareDownload    = RouteVaultShare + "/files/:file_id/download"

	// audit
	RouteVaultAudit = RouteApiV1 + "/vault/audit"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
