package repository

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"staffhub/internal/core"
	client "staffhub/internal/database/client"
	"staffhub/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

// RotaCacheRepository 分組排班查詢快取。
// 寫入路徑不逐一清 key，而是 INCR 版本號讓舊快取自然失效（key 內含版本）。
type RotaCacheRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
}

func NewRotaCacheRepository(trace *telemetry.Trace, client *client.RedisClient) *RotaCacheRepository {
	return &RotaCacheRepository{trace: trace, client: client.Client()}
}

var ErrCacheMiss = errors.New("rota cache miss")

func (repository *RotaCacheRepository) Version(contextValue context.Context) (returnedVersion int64, returnedError error) {
	versionValue, getError := repository.client.Get(contextValue, string(core.RedisKeyRotaCacheVersion)).Int64()
	if getError != nil {
		if errors.Is(getError, redis.Nil) {
			return 0, nil
		}
		return 0, getError
	}
	return versionValue, nil
}

// Bump 任何排班寫入後呼叫，作廢所有分組查詢快取
func (repository *RotaCacheRepository) Bump(contextValue context.Context) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		endSpan(returnedError)
	}()

	newVersion, incrError := repository.client.Incr(contextValue, string(core.RedisKeyRotaCacheVersion)).Result()
	if incrError != nil {
		returnedError = incrError
		return returnedError
	}
	repository.trace.ApplyTraceAttributes(span, core.TraceRotaCacheMeta{Op: "bump", Version: newVersion})
	return nil
}

// GetGroups 取出既有快取；miss 回傳 ErrCacheMiss
func (repository *RotaCacheRepository) GetGroups(contextValue context.Context, filterFingerprint string) (returnedPayload []byte, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		if errors.Is(returnedError, ErrCacheMiss) {
			endSpan(nil)
			return
		}
		endSpan(returnedError)
	}()

	version, versionError := repository.Version(contextValue)
	if versionError != nil {
		returnedError = versionError
		return nil, returnedError
	}

	redisKey := repository.buildKey(version, filterFingerprint)
	payload, getError := repository.client.Get(contextValue, redisKey).Bytes()
	if getError != nil {
		if errors.Is(getError, redis.Nil) {
			repository.trace.ApplyTraceAttributes(span, core.TraceRotaCacheMeta{Op: "get", Key: redisKey, Version: version, Hit: false})
			returnedError = ErrCacheMiss
			return nil, returnedError
		}
		returnedError = getError
		return nil, returnedError
	}

	repository.trace.ApplyTraceAttributes(span, core.TraceRotaCacheMeta{Op: "get", Key: redisKey, Version: version, Hit: true})
	return payload, nil
}

// SetGroups 寫入快取，ttlSeconds <= 0 時不做任何事
func (repository *RotaCacheRepository) SetGroups(contextValue context.Context, filterFingerprint string, payload []byte, ttlSeconds int64) (returnedError error) {
	if ttlSeconds <= 0 {
		return nil
	}

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		endSpan(returnedError)
	}()

	version, versionError := repository.Version(contextValue)
	if versionError != nil {
		returnedError = versionError
		return returnedError
	}

	redisKey := repository.buildKey(version, filterFingerprint)
	returnedError = repository.client.Set(contextValue, redisKey, payload, time.Duration(ttlSeconds)*time.Second).Err()
	repository.trace.ApplyTraceAttributes(span, core.TraceRotaCacheMeta{Op: "set", Key: redisKey, Version: version, TTLSec: ttlSeconds})
	return returnedError
}

// Fingerprint 把查詢條件縮為固定長度的 key 片段
func Fingerprint(parts ...string) string {
	hash := sha1.New()
	for _, part := range parts {
		hash.Write([]byte(part))
		hash.Write([]byte{0})
	}
	return hex.EncodeToString(hash.Sum(nil))
}

func (repository *RotaCacheRepository) buildKey(version int64, filterFingerprint string) string {
	return fmt.Sprintf("%s:%s:v%d:%s", core.RedisKeyServerName, core.RedisKeyRotaGroupCache, version, filterFingerprint)
}
