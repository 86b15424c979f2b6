package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goban/internal/bootstrap"
	"goban/internal/domain"
)

const (
	movePath    = "/api/move"
	analyzePath = "/api/analyze"
)

// KatagoRepository talks to the HTTP bridge in front of the KataGo engine.
type KatagoRepository struct {
	cfg       *bootstrap.Config
	log       *zap.SugaredLogger
	kataGoURL string
	client    *http.Client
}

func NewKatagoRepository(cfg *bootstrap.Config, log *zap.SugaredLogger) *KatagoRepository {
	return &KatagoRepository{
		cfg:       cfg,
		log:       log,
		kataGoURL: strings.TrimRight(cfg.KatagoUrl, "/"),
		client:    &http.Client{Timeout: cfg.AdvisorTimeout},
	}
}

func (k *KatagoRepository) GenerateMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResponse, error) {
	var result domain.MoveResponse
	if err := k.post(ctx, movePath, req, &result); err != nil {
		return domain.MoveResponse{}, err
	}
	return result, nil
}

func (k *KatagoRepository) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	var result domain.AnalysisResponse
	if err := k.post(ctx, analyzePath, req, &result); err != nil {
		return domain.AnalysisResponse{}, err
	}
	return result, nil
}

func (k *KatagoRepository) post(ctx context.Context, path string, body, dst any) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.kataGoURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	k.log.Debugf("katago %s request %s", path, requestID)

	resp, err := k.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err = json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
