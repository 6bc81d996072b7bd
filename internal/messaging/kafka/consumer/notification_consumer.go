package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TAIYOKONO/kintaikanri/internal/events"
	"github.com/TAIYOKONO/kintaikanri/internal/tenant"
)

// ConsumeEmployeeLifecycle turns employee.registered events into welcome
// notifications. Delivery is a structured log line for now; a mail or
// push integration can replace the log without touching the producers.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	tenantService tenant.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeRegisteredEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_registered event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		companyName := event.TenantID
		if t, err := tenantService.GetByID(ctx, event.TenantID); err == nil {
			companyName = t.CompanyName
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("welcome notification",
			zap.String("user_id", event.UserID),
			zap.String("email", event.Email),
			zap.String("tenant_id", event.TenantID),
			zap.String("company_name", companyName),
			zap.String("invite_code", event.InviteCode),
		)
	}
}

// ConsumeAdminRequestLifecycle notifies operators that a new tenant
// application is waiting for review.
func ConsumeAdminRequestLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.adminrequest_lifecycle")
	log.Info("admin request consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("admin request consumer stopped")
				return
			}
			log.Error("fetch admin request message failed", zap.Error(err))
			continue
		}

		var event events.AdminRequestSubmittedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode admin_request_submitted event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit admin request message failed", zap.Error(err))
			continue
		}

		log.Info("tenant application awaiting review",
			zap.String("request_id", event.RequestID),
			zap.String("company_name", event.CompanyName),
			zap.String("email", event.Email),
		)
	}
}
