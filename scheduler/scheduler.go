package scheduler

import (
	"context"
	"sync"
	"time"

	"personalization_api/config"
	"personalization_api/logger"
	"personalization_api/services"
)

// 任务类型
type TaskType int

const (
	TaskCacheSweep TaskType = iota
	TaskAnalyticsExport
)

// 任务状态
type TaskStatus struct {
	LastRun     time.Time
	NextRun     time.Time
	Interval    time.Duration
	IsRunning   bool
	Description string
}

// 任务调度器，周期执行缓存清理和统计上报
type Scheduler struct {
	cfg    *config.Config
	cache  *services.RecommendationCache
	export *services.ExportService
	tasks  map[TaskType]*TaskStatus
	mutex  sync.Mutex
}

// 创建新的调度器
func NewScheduler(cfg *config.Config, cache *services.RecommendationCache, export *services.ExportService) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		cache:  cache,
		export: export,
		tasks:  make(map[TaskType]*TaskStatus),
	}
}

// 启动调度器
func Start(cfg *config.Config, cache *services.RecommendationCache, export *services.ExportService) {
	s := NewScheduler(cfg, cache, export)
	s.initTasks()
	go s.run()

	logger.Info("调度器已启动", "check_interval_sec", cfg.Scheduler.CheckIntervalSec, "task_count", len(s.tasks))
}

// 初始化任务
func (s *Scheduler) initTasks() {
	now := time.Now()

	sweepInterval := time.Duration(s.cfg.Cache.SweepInterval) * time.Second
	s.tasks[TaskCacheSweep] = &TaskStatus{
		LastRun:     now,
		NextRun:     now.Add(sweepInterval),
		Interval:    sweepInterval,
		Description: "缓存过期条目清理",
	}

	// 只有配置了上报地址才调度统计上报任务
	if s.export != nil && s.export.Enabled() {
		exportInterval := time.Duration(s.cfg.Analytics.ExportIntervalSec) * time.Second
		s.tasks[TaskAnalyticsExport] = &TaskStatus{
			LastRun:     now,
			NextRun:     now.Add(exportInterval),
			Interval:    exportInterval,
			Description: "统计快照上报",
		}
	}
}

// 主循环
func (s *Scheduler) run() {
	checkInterval := s.cfg.Scheduler.CheckIntervalSec
	if checkInterval <= 0 {
		checkInterval = 30 // 默认值
	}
	ticker := time.NewTicker(time.Duration(checkInterval) * time.Second)
	defer ticker.Stop()

	for now := range ticker.C {
		s.checkTasks(now)
	}
}

// 检查任务
func (s *Scheduler) checkTasks(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for taskType, status := range s.tasks {
		// 如果任务正在运行，跳过
		if status.IsRunning {
			continue
		}

		if now.After(status.NextRun) || now.Equal(status.NextRun) {
			status.IsRunning = true
			go s.runTask(taskType, now)
		}
	}
}

// 运行任务
func (s *Scheduler) runTask(taskType TaskType, now time.Time) {
	defer func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		status := s.tasks[taskType]
		status.IsRunning = false
		status.LastRun = now
		status.NextRun = now.Add(status.Interval)
	}()

	switch taskType {
	case TaskCacheSweep:
		removed := s.cache.SweepExpired()
		if removed > 0 {
			logger.Info("缓存清理完成", "removed", removed, "remaining", s.cache.Len())
		}
	case TaskAnalyticsExport:
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.export.Export(ctx); err != nil {
			logger.Error("统计快照上报失败", "error", err)
		}
	}
}
