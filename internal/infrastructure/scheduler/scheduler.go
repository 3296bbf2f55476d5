package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// StaleAccountCloser fecha contas abertas de dias anteriores
type StaleAccountCloser interface {
	CloseStaleAccounts(ctx context.Context) (int, error)
}

// Scheduler executa as rotinas diárias do restaurante
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    logger.Logger
}

// New cria o agendador no fuso do restaurante
func New(loc *time.Location, log logger.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("erro ao criar agendador: %w", err)
	}
	return &Scheduler{scheduler: s, logger: log}, nil
}

// ScheduleAutoClose agenda o fechamento diário de contas esquecidas
func (s *Scheduler) ScheduleAutoClose(hour, minute int, closer StaleAccountCloser) error {
	_, err := s.scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(uint(hour), uint(minute), 0),
			),
		),
		gocron.NewTask(s.autoClose, closer),
		gocron.WithName("account-autoclose"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("erro ao agendar fechamento de contas: %w", err)
	}
	s.logger.Info("fechamento automático de contas agendado", "at", fmt.Sprintf("%02d:%02d", hour, minute))
	return nil
}

func (s *Scheduler) autoClose(closer StaleAccountCloser) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	closed, err := closer.CloseStaleAccounts(ctx)
	if err != nil {
		s.logger.Error("erro ao fechar contas esquecidas", "error", err)
		return
	}
	s.logger.Info("contas esquecidas fechadas", "count", closed)
}

// Run inicia o agendador e o encerra quando o contexto for cancelado
func (s *Scheduler) Run(ctx context.Context) error {
	s.scheduler.Start()
	<-ctx.Done()
	return s.scheduler.Shutdown()
}
