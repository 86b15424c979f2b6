package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"goban/internal/bootstrap"
	advisorRPC "goban/microservices/proto"
	"goban/microservices/repository"
	"goban/microservices/usecase"
)

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", zap.Error(err))
		return
	}

	addr := ":" + cfg.AdvisorGrpcPort
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatalw("cant listen port", "addr", addr, zap.Error(err))
	}

	server := grpc.NewServer()
	katagoStorage := repository.NewKatagoRepository(cfg, logger)
	advisorRPC.RegisterAdvisorServer(server, usecase.NewAdvisorUseCase(katagoStorage, logger))

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		logger.Info("Received shutdown signal")
		server.GracefulStop()
	}()

	logger.Infof("advisor listening on %s, engine at %s", addr, cfg.KatagoUrl)
	if err = server.Serve(lis); err != nil {
		logger.Fatalw("advisor server stopped", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return logger.Sugar()
}
