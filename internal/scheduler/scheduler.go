package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidSpec возвращается для некорректного cron выражения
var ErrInvalidSpec = errors.New("scheduler: invalid cron spec")

// JobFunc один проход задачи на момент now
type JobFunc func(ctx context.Context, now time.Time)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестов)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Scheduler запускает задачи по cron внутри процесса.
// Пересекающиеся запуски одной задачи пропускаются, идемпотентность между
// инстансами обеспечивают сами задачи.
type Scheduler struct {
	cron         *cron.Cron
	timeout      time.Duration
	timeProvider TimeProvider
	logger       Logger
	baseCtx      context.Context
}

func New(location *time.Location, timeout time.Duration, logger Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		timeout:      timeout,
		timeProvider: RealTimeProvider{},
		logger:       logger,
		baseCtx:      context.Background(),
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Scheduler) WithTimeProvider(tp TimeProvider) *Scheduler {
	s.timeProvider = tp
	return s
}

// Add регистрирует задачу. spec в стандартном пятипольном формате или дескриптор (@hourly, @every 30m).
func (s *Scheduler) Add(name, spec string, job JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() { s.runJob(name, job) })
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidSpec, name, spec, err)
	}
	s.logger.Info("Scheduler: job %s registered with spec %q", name, spec)
	return nil
}

// Run запускает планировщик и блокируется до отмены ctx.
// Идущие проходы дорабатывают в пределах таймаута.
func (s *Scheduler) Run(ctx context.Context) error {
	s.baseCtx = context.WithoutCancel(ctx)
	s.cron.Start()
	s.logger.Info("Scheduler: started")

	<-ctx.Done()

	s.logger.Info("Scheduler: stopping, waiting for running jobs")
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler: stopped")
	return nil
}

func (s *Scheduler) runJob(name string, job JobFunc) {
	ctx, cancel := s.jobContext()
	defer cancel()

	now := s.timeProvider.Now()
	start := time.Now()
	s.logger.Info("Scheduler: job %s started, now=%s", name, now.Format(time.RFC3339))

	job(ctx, now)

	if err := ctx.Err(); errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("Scheduler: job %s hit timeout %s", name, s.timeout)
	}
	s.logger.Info("Scheduler: job %s finished in %s", name, time.Since(start))
}

func (s *Scheduler) jobContext() (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(s.baseCtx)
	}
	return context.WithTimeout(s.baseCtx, s.timeout)
}

// cronLogger адаптирует printf логгер сервиса к cron.Logger
type cronLogger struct {
	logger Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	// Служебные сообщения cron о каждом тике не нужны
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("Scheduler: %s: %v %v", msg, err, keysAndValues)
}
