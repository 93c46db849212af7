package scheduler

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var (
	ErrEmptyJobName  = errors.New("scheduler: job name is required")
	ErrEmptyCronExpr = errors.New("scheduler: cron expression is required")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler обертка над gocron для фоновых задач сервиса
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    Logger
	stopOnce  sync.Once
	stopErr   error
}

// New создает планировщик. Cron-выражения задач считаются в поясе location
// (nil - локальный пояс сервера). Паника задачи логируется и не роняет процесс.
func New(location *time.Location, logger Logger) (*Scheduler, error) {
	if location == nil {
		location = time.Local
	}
	sched, err := gocron.NewScheduler(
		gocron.WithLocation(location),
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("Scheduler: job %s (%s) panicked: %v", jobName, jobID, recoverData)
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}
	return &Scheduler{scheduler: sched, logger: logger}, nil
}

// AddJob регистрирует задачу по cron-выражению (5 полей, без секунд).
// Следующий запуск не начинается, пока не завершился предыдущий.
func (s *Scheduler) AddJob(name, cronExpr string, task func()) (gocron.Job, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyJobName
	}
	if strings.TrimSpace(cronExpr) == "" {
		return nil, ErrEmptyCronExpr
	}

	job, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func() {
			s.logger.Info("Scheduler: job %s started", name)
			task()
			s.logger.Info("Scheduler: job %s completed", name)
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.logger.Error("Scheduler: failed to register job %s (%s): %v", name, cronExpr, err)
		return nil, err
	}

	s.logger.Info("Scheduler: job %s registered with cron %q", name, cronExpr)
	return job, nil
}

// Start запускает выполнение задач
func (s *Scheduler) Start() {
	s.logger.Info("Scheduler: starting")
	s.scheduler.Start()
}

// Stop останавливает планировщик и ждет завершения выполняющихся задач
func (s *Scheduler) Stop() error {
	s.stopOnce.Do(func() {
		s.logger.Info("Scheduler: stopping")
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}
