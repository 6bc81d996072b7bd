package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TAIYOKONO/kintaikanri/internal/events"
	"github.com/TAIYOKONO/kintaikanri/internal/rbac"
	"github.com/TAIYOKONO/kintaikanri/internal/tenant"
)

// ConsumeTenantLifecycle reacts to tenant.provisioned events: it loads
// the new tenant's permission policy into the enforcer and warms the
// tenant cache, so the first admin login does not pay the cold-start
// cost. On service failure the message is not committed and will be
// redelivered.
func ConsumeTenantLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	rbacService rbac.Service,
	tenantService tenant.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.tenant_lifecycle")
	log.Info("tenant lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("tenant lifecycle consumer stopped")
				return
			}
			log.Error("fetch tenant lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.TenantProvisionedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode tenant_provisioned event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := rbacService.LoadTenantPolicy(event.TenantID); err != nil {
			log.Error("load tenant policy failed",
				zap.String("tenant_id", event.TenantID),
				zap.Error(err),
			)
			continue
		}

		if _, err := tenantService.GetByID(ctx, event.TenantID); err != nil {
			log.Error("warm tenant cache failed",
				zap.String("tenant_id", event.TenantID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit tenant lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("tenant provisioned",
			zap.String("tenant_id", event.TenantID),
			zap.String("company_name", event.CompanyName),
			zap.String("admin_email", event.AdminEmail),
		)
	}
}
