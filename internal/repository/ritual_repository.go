package repository

import (
	"context"
	"encoding/json"
	"ritual_tracker_backend/internal/model"
	"ritual_tracker_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const ritualCatalogKey = "ritual:catalog"

// RitualRepository 仪式目录仓库。目录是只读参考数据，列表走 Redis
// 旁路缓存，写入失败只记日志不影响请求。
type RitualRepository struct {
	DB       *gorm.DB
	Redis    *redis.Client
	CacheTTL time.Duration
}

func NewRitualRepository(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *RitualRepository {
	return &RitualRepository{DB: db, Redis: rdb, CacheTTL: cacheTTL}
}

func (r *RitualRepository) FindAll(ctx context.Context) ([]model.Ritual, error) {
	if r.Redis != nil {
		val, err := r.Redis.Get(ctx, ritualCatalogKey).Result()
		if err == nil {
			var rituals []model.Ritual
			if jsonErr := json.Unmarshal([]byte(val), &rituals); jsonErr == nil {
				return rituals, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("ritual catalog cache read failed", zap.Error(err))
		}
	}

	var rituals []model.Ritual
	if err := r.DB.Order("id").Find(&rituals).Error; err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if payload, err := json.Marshal(rituals); err == nil {
			if err := r.Redis.Set(ctx, ritualCatalogKey, payload, r.CacheTTL).Err(); err != nil {
				logger.Log.Warn("ritual catalog cache write failed", zap.Error(err))
			}
		}
	}

	return rituals, nil
}

func (r *RitualRepository) FindByID(id uint) (*model.Ritual, error) {
	var ritual model.Ritual
	err := r.DB.First(&ritual, id).Error
	if err != nil {
		return nil, err
	}
	return &ritual, nil
}
