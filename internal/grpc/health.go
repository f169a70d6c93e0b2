// Package grpc поднимает служебный gRPC сервер: grpc.health.v1.Health и reflection.
package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName имя сервиса в ответах Health.Check.
const ServiceName = "filmorate"

// HealthServer сообщает SERVING, пока хранилище отвечает на ping, иначе NOT_SERVING.
type HealthServer struct {
	health   *health.Server
	ping     func(ctx context.Context) error
	interval time.Duration
	logger   *slog.Logger
}

// NewHealthServer создает сервер здоровья. До первой проверки статус NOT_SERVING.
func NewHealthServer(ping func(ctx context.Context) error, interval time.Duration, logger *slog.Logger) *HealthServer {
	s := &HealthServer{
		health:   health.NewServer(),
		ping:     ping,
		interval: interval,
		logger:   logger,
	}
	s.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// NewServer создает gRPC сервер с зарегистрированными health и reflection.
func NewServer(hs *HealthServer) *grpc.Server {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, hs.health)
	reflection.Register(srv)
	return srv
}

// Check один раз пингует хранилище и обновляет статус.
func (s *HealthServer) Check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()
	if err := s.ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "Storage ping failed", slog.String("error", err.Error()))
		s.set(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.set(healthpb.HealthCheckResponse_SERVING)
}

// Run проверяет хранилище каждые interval до отмены ctx.
func (s *HealthServer) Run(ctx context.Context) {
	s.Check(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Shutdown переводит все сервисы в NOT_SERVING, статус больше не меняется.
func (s *HealthServer) Shutdown() {
	s.health.Shutdown()
}

func (s *HealthServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
