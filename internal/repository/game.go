package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"goban/internal/bootstrap"
	"goban/internal/domain/game"
	gobanErrors "goban/internal/errors"
)

const (
	sessionKeyPrefix  = "goban:session:"
	archiveCollection = "games"
	opTimeout         = 5 * time.Second
)

// GameRepository keeps live sessions in Redis and finished games in MongoDB.
type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (g *GameRepository) SaveSession(ctx context.Context, snapshot game.SessionSnapshot) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", snapshot.ID, err)
	}
	if err = g.redis.Set(ctx, sessionKey(snapshot.ID), data, g.cfg.SessionTTL).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", snapshot.ID, err)
	}
	return nil
}

func (g *GameRepository) LoadSession(ctx context.Context, id string) (game.SessionSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var snapshot game.SessionSnapshot
	data, err := g.redis.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return snapshot, gobanErrors.ErrGameNotFound
	} else if err != nil {
		return snapshot, fmt.Errorf("load session %s: %w", id, err)
	}

	if err = json.Unmarshal(data, &snapshot); err != nil {
		return snapshot, fmt.Errorf("decode session %s: %w", id, err)
	}
	return snapshot, nil
}

// ArchiveGame upserts the finished game by id so a retried archive does not
// duplicate it.
func (g *GameRepository) ArchiveGame(ctx context.Context, archived game.ArchivedGame) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	collection := g.mongo.Collection(archiveCollection)
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": archived.ID}, archived, opts); err != nil {
		return fmt.Errorf("archive game %s: %w", archived.ID, err)
	}

	g.log.Infof("game %s archived (%s)", archived.ID, archived.EndReason)
	return nil
}

func (g *GameRepository) GetArchivedGame(ctx context.Context, id string) (game.ArchivedGame, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var archived game.ArchivedGame
	err := g.mongo.Collection(archiveCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&archived)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return archived, gobanErrors.ErrGameNotFound
	} else if err != nil {
		g.log.Error(err)
		return archived, fmt.Errorf("find archived game %s: %w", id, err)
	}
	return archived, nil
}
