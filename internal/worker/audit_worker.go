package worker

import (
	"github.com/spec-kit/page-delivery-service/internal/service"
)

// StartAuditWorker registers access-audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
