package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TAIYOKONO/kintaikanri/internal/events"
	"github.com/TAIYOKONO/kintaikanri/internal/messaging/kafka/consumer"
	"github.com/TAIYOKONO/kintaikanri/internal/rbac"
	"github.com/TAIYOKONO/kintaikanri/internal/rbac/infra"
	"github.com/TAIYOKONO/kintaikanri/internal/shared/connection"
	"github.com/TAIYOKONO/kintaikanri/internal/tenant"
)

// RunConsumer starts one consumer group per lifecycle topic and blocks
// until SIGINT/SIGTERM.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbac.NewRepository(gormDB), enforcer)
	tenantService := tenant.NewService(tenant.NewRepository(gormDB), rdb)

	newReader := func(topic, group string) *kafkago.Reader {
		return kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        []string{kafkaBroker},
			Topic:          topic,
			GroupID:        group,
			CommitInterval: 0,
			StartOffset:    kafkago.FirstOffset,
		})
	}

	tenantReader := newReader(events.TenantProvisionedTopic, "kintaikanri-tenant-lifecycle")
	defer tenantReader.Close()
	employeeReader := newReader(events.EmployeeRegisteredTopic, "kintaikanri-employee-lifecycle")
	defer employeeReader.Close()
	adminRequestReader := newReader(events.AdminRequestSubmittedTopic, "kintaikanri-adminrequest-lifecycle")
	defer adminRequestReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeTenantLifecycle(ctx, tenantReader, rbacService, tenantService, logger)
	go consumer.ConsumeEmployeeLifecycle(ctx, employeeReader, tenantService, logger)
	go consumer.ConsumeAdminRequestLifecycle(ctx, adminRequestReader, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
