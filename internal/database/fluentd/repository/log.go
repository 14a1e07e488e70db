package repository

import (
	"context"
	"encoding/json"
	"time"

	"staffhub/config"
	"staffhub/internal/core"
	"staffhub/internal/database/client"
	"staffhub/internal/database/fluentd/model"
)

// LogRepository 統一負責發送 Request/Response/稽核 Log 到 Fluentd
type LogRepository struct {
	fluentdClient *client.FluentdClient
	version       string
}

func NewLogRepository(config *config.Configuration, client *client.FluentdClient) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &LogRepository{fluentdClient: client, version: version}
}

func (repository *LogRepository) LogRequest(ctx context.Context, req model.RequestLog) error {
	if req.LoggedAt == "" {
		req.LoggedAt = time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC")
	}
	if req.Version == "" {
		req.Version = repository.version
	}
	return repository.post(ctx, core.FluentdRequest, req)
}

func (repository *LogRepository) LogResponse(ctx context.Context, resp model.ResponseLog) error {
	if resp.LoggedAt == "" {
		resp.LoggedAt = time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC")
	}
	if resp.Version == "" {
		resp.Version = repository.version
	}
	return repository.post(ctx, core.FluentdResponse, resp)
}

func (repository *LogRepository) LogRotaAudit(ctx context.Context, audit model.RotaAuditLog) error {
	if audit.LoggedAt == "" {
		audit.LoggedAt = time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC")
	}
	if audit.Version == "" {
		audit.Version = repository.version
	}
	return repository.post(ctx, core.FluentdRotaAudit, audit)
}

func (repository *LogRepository) post(ctx context.Context, tag core.FluentdSubTag, record any) error {
	b, _ := json.Marshal(record)
	var fluentdMessage map[string]any
	_ = json.Unmarshal(b, &fluentdMessage)
	return repository.fluentdClient.Post(ctx, string(tag), fluentdMessage)
}
