// 手动预生成子主题讲解内容
//
// 正常情况下讲解内容在第一次访问时生成。此脚本用于上线前或批量导入路线图后
// 提前生成，避免第一次访问等待生成服务。
//
// 用法: go run scripts/warm_subtopic_details.go -limit 200

package main

import (
	"clarity_hub_backend/internal/config"
	"clarity_hub_backend/internal/repository"
	"clarity_hub_backend/internal/service"
	"clarity_hub_backend/pkg/database"
	"clarity_hub_backend/pkg/logger"
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	limit := flag.Int("limit", 100, "本次最多处理的子主题数量，0 表示全部")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	generator, err := service.NewContentGenerator(cfg)
	if err != nil {
		log.Fatalf("初始化生成服务失败: %v", err)
	}

	// Redis 可选，可用时顺便写入缓存
	var cache service.DetailCache
	if rdb, err := database.InitRedis(&cfg.Redis); err == nil {
		defer rdb.Close()
		cache = repository.NewSubtopicCacheRepository(rdb)
	} else {
		log.Printf("Redis 不可用，只写入数据库: %v", err)
	}

	details := service.NewSubtopicDetailService(repository.NewRoadmapRepository(db), cache, generator, cfg.Cache.DetailTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("开始预生成子主题讲解...")
	warmed, err := details.Warm(ctx, *limit)
	if err != nil {
		log.Fatalf("预生成中断: %v (已完成 %d 个)", err, warmed)
	}
	log.Printf("完成！共生成 %d 个子主题讲解", warmed)
}
