package service

import (
	"context"
	"fmt"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/monitoring"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/notify"
	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// AccountDetails é a conta com seus pedidos
type AccountDetails struct {
	Account *account.Account
	Orders  []*order.Order
}

// AccountService controla o ciclo de vida das contas
type AccountService struct {
	transactor Transactor
	accounts   account.Repository
	orders     order.Repository
	calendar   *calendar.BusinessCalendar
	sink       monitoring.Sink
	notifier   notify.AccountNotifier
	logger     logger.Logger
}

// NewAccountService cria uma nova instância de AccountService
func NewAccountService(deps Dependencies) *AccountService {
	s := &AccountService{
		transactor: deps.Transactor,
		accounts:   deps.Accounts,
		orders:     deps.Orders,
		calendar:   deps.Calendar,
		sink:       deps.Sink,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
	if s.sink == nil {
		s.sink = monitoring.NopSink{}
	}
	if s.notifier == nil {
		s.notifier = notify.NopNotifier{}
	}
	if s.logger == nil {
		s.logger = logger.NopLogger{}
	}
	return s
}

// GetAccount busca a conta e seus pedidos
func (s *AccountService) GetAccount(ctx context.Context, id string) (*AccountDetails, error) {
	acc, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	orders, err := s.orders.ListByAccount(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return &AccountDetails{Account: acc, Orders: orders}, nil
}

// ListAccounts lista contas por dia e estado
func (s *AccountService) ListAccounts(ctx context.Context, filter account.Filter) ([]*account.Account, error) {
	if filter.State != "" && !filter.State.IsValid() {
		return nil, &ValidationError{Field: "state", Message: "estado desconhecido"}
	}
	accounts, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, classify(err)
	}
	return accounts, nil
}

// CloseAccount fecha a conta para pagamento
func (s *AccountService) CloseAccount(ctx context.Context, id string) (*account.Account, error) {
	return s.transition(ctx, id, "account.closed", func(a *account.Account) error {
		return a.Close(s.calendar.Now())
	})
}

// SettleAccount registra o pagamento de uma conta fechada
func (s *AccountService) SettleAccount(ctx context.Context, id string) (*account.Account, error) {
	return s.transition(ctx, id, "account.settled", func(a *account.Account) error {
		return a.Settle(s.calendar.Now())
	})
}

// CancelAccount cancela uma conta sem pedidos ativos
func (s *AccountService) CancelAccount(ctx context.Context, id string) (*account.Account, error) {
	var active int
	return s.transition(ctx, id, "account.cancelled", func(a *account.Account) error {
		return a.Cancel(s.calendar.Now(), active)
	}, func(ctx context.Context, a *account.Account) error {
		_, count, err := s.accounts.SumActiveOrders(ctx, a.ID)
		active = count
		return err
	})
}

// CloseStaleAccounts fecha as contas que ficaram abertas de dias anteriores
func (s *AccountService) CloseStaleAccounts(ctx context.Context) (int, error) {
	stale, err := s.accounts.ListOpenBefore(ctx, s.calendar.Today())
	if err != nil {
		return 0, fmt.Errorf("erro ao listar contas esquecidas: %w", err)
	}

	closed := 0
	for _, a := range stale {
		if _, err := s.CloseAccount(ctx, a.ID); err != nil {
			s.logger.Warn("erro ao fechar conta esquecida", "account_id", a.ID, "error", err)
			continue
		}
		closed++
	}
	return closed, nil
}

// transition bloqueia a conta, aplica a mudança de estado e grava, numa transação
func (s *AccountService) transition(
	ctx context.Context,
	id string,
	event string,
	apply func(a *account.Account) error,
	before ...func(ctx context.Context, a *account.Account) error,
) (*account.Account, error) {
	var acc *account.Account
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		acc, err = s.accounts.FindForUpdate(ctx, id)
		if err != nil {
			return err
		}
		for _, fn := range before {
			if err := fn(ctx, acc); err != nil {
				return err
			}
		}
		if err := apply(acc); err != nil {
			return err
		}
		return s.accounts.UpdateState(ctx, acc)
	})
	if err != nil {
		return nil, classify(err)
	}

	s.notifier.AccountChanged(ctx, acc)
	s.sink.Emit(monitoring.Event{
		Level:   monitoring.LevelInfo,
		Event:   event,
		Outcome: "ok",
		Fields: map[string]any{
			"account_id":      acc.ID,
			"sequence_number": acc.SequenceNumber,
			"total":           acc.Total.String(),
		},
	})
	s.logger.Info("estado da conta alterado", "account_id", acc.ID, "state", acc.State)
	return acc, nil
}
