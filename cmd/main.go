package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"goban/internal/adapters"
	"goban/internal/bootstrap"
	gameDelivery "goban/internal/delivery/game"
	ownMiddleware "goban/internal/middleware"
	repo "goban/internal/repository"
	advisorUC "goban/internal/usecase/advisor"
	gameuc "goban/internal/usecase/game"
	advisorProto "goban/microservices/proto"
	katagoRepo "goban/microservices/repository"
)

type mainDeliveryHandler struct {
	game *gameDelivery.GameHandler
}

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	databaseAdapters := initDatabaseAdapters(ctx, logger, cfg)
	defer databaseAdapters.mongoAdapter.Close(context.Background())
	defer databaseAdapters.redisAdapter.Close(context.Background())

	advisor, closeAdvisor := initAdvisor(logger, cfg)
	defer closeAdvisor()

	r := chi.NewRouter()
	handlers := initializeDeliveryHandlers(ctx, *cfg, logger, advisor, databaseAdapters)
	handlers.Router(r, cfg.IsLocalCors)

	server := &http.Server{Addr: cfg.Addr(), Handler: r}
	go handleShutdown(cancel, logger, server)

	logger.Infof("Server is running on %s (advisor mode %s)", cfg.Addr(), cfg.AdvisorMode)
	if err = server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h.game.Routes(r)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize Redis", zap.Error(err))
	}

	log.Info("Database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

// initAdvisor picks the move advisor for ADVISOR_MODE. A nil advisor
// leaves move selection to the local heuristic.
func initAdvisor(log *zap.SugaredLogger, cfg *bootstrap.Config) (gameuc.Advisor, func()) {
	switch cfg.AdvisorMode {
	case bootstrap.AdvisorGRPC:
		conn, err := grpc.NewClient(cfg.AdvisorGrpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			log.Fatalw("Failed to dial grpc", zap.Error(err))
		}
		client := advisorProto.NewAdvisorClient(conn)
		return advisorUC.NewGRPCAdvisor(client, log), func() { _ = conn.Close() }
	case bootstrap.AdvisorHTTP:
		return katagoRepo.NewKatagoRepository(cfg, log), func() {}
	}
	return nil, func() {}
}

func initializeDeliveryHandlers(
	ctx context.Context,
	cfg bootstrap.Config,
	log *zap.SugaredLogger,
	advisor gameuc.Advisor,
	databaseAdapters *dataBaseAdapters,
) *mainDeliveryHandler {
	gameRepository := repo.NewGameRepository(cfg, log, databaseAdapters.redisAdapter.GetClient(), databaseAdapters.mongoAdapter.Database)
	gameUseCase := gameuc.NewGameUseCase(cfg, log, gameRepository, advisor)
	if cfg.SessionTTL > 0 {
		go gameUseCase.RunJanitor(ctx, max(cfg.SessionTTL/4, time.Minute))
	}

	return &mainDeliveryHandler{
		game: gameDelivery.NewGameHandler(cfg, log, gameUseCase),
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger, server *http.Server) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorw("Graceful shutdown failed", zap.Error(err))
	}
	cancelFunc()
}
