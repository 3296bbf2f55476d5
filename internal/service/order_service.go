package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/menu"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/promotion"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/sequence"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/user"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/monitoring"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/notify"
	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// Transactor executa fn numa transação carregada pelo contexto
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NumberAllocator reserva números de pedido
type NumberAllocator interface {
	Allocate(ctx context.Context, scope sequence.Scope, day calendar.Day) (string, error)
}

// Dependencies reúne os colaboradores dos serviços
type Dependencies struct {
	Transactor Transactor
	Users      user.Repository
	Menu       menu.Repository
	Promotions promotion.Repository
	Orders     order.Repository
	Accounts   account.Repository
	Allocator  NumberAllocator
	Ledger     *account.Ledger
	Engine     *promotion.Engine
	Calendar   *calendar.BusinessCalendar
	Sink       monitoring.Sink
	Notifier   notify.AccountNotifier
	Logger     logger.Logger
}

// OrderService registra pedidos e controla seu ciclo de vida
type OrderService struct {
	transactor Transactor
	users      user.Repository
	menu       menu.Repository
	promotions promotion.Repository
	orders     order.Repository
	accounts   account.Repository
	allocator  NumberAllocator
	ledger     *account.Ledger
	engine     *promotion.Engine
	calendar   *calendar.BusinessCalendar
	sink       monitoring.Sink
	notifier   notify.AccountNotifier
	logger     logger.Logger
	validate   *validator.Validate
}

// NewOrderService cria uma nova instância de OrderService
func NewOrderService(deps Dependencies) *OrderService {
	s := &OrderService{
		transactor: deps.Transactor,
		users:      deps.Users,
		menu:       deps.Menu,
		promotions: deps.Promotions,
		orders:     deps.Orders,
		accounts:   deps.Accounts,
		allocator:  deps.Allocator,
		ledger:     deps.Ledger,
		engine:     deps.Engine,
		calendar:   deps.Calendar,
		sink:       deps.Sink,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
		validate:   newValidator(),
	}
	if s.engine == nil {
		s.engine = promotion.NewEngine(nil)
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

// Submit registra um pedido numa única transação: reserva o número, resolve
// ou abre a conta, grava pedido e itens com os descontos e recalcula o total
// da conta. Qualquer falha desfaz tudo.
func (s *OrderService) Submit(ctx context.Context, cmd SubmitOrderCommand) (*OrderResult, error) {
	start := time.Now()
	result, err := s.submit(ctx, cmd)
	err = classify(err)
	s.emitSubmission(cmd, result, err, time.Since(start))
	return result, err
}

func (s *OrderService) submit(ctx context.Context, cmd SubmitOrderCommand) (*OrderResult, error) {
	cmd.ActorID = strings.TrimSpace(cmd.ActorID)
	cmd.TableID = strings.TrimSpace(cmd.TableID)

	if err := s.validate.Struct(cmd); err != nil {
		return nil, validationError(err)
	}
	if cmd.Takeout {
		cmd.TableID = ""
	} else if cmd.TableID == "" {
		return nil, &ValidationError{Field: "table_id", Message: "mesa obrigatória para pedidos no salão"}
	}

	exists, err := s.users.Exists(ctx, cmd.ActorID)
	if err != nil {
		return nil, &InternalError{Cause: fmt.Errorf("erro ao verificar ator: %w", err)}
	}
	if !exists {
		return nil, &ValidationError{Field: "actor_id", Message: "ator não encontrado"}
	}

	now := s.calendar.Now()
	day := s.calendar.Today()
	// promoções seguem o dia comercial do pedido com o horário atual
	priceAt := now
	if cmd.Day != nil && !cmd.Day.IsZero() {
		day = *cmd.Day
		priceAt = day.At(now)
	}

	pricedCart, err := s.price(ctx, cmd.Lines, priceAt)
	if err != nil {
		return nil, err
	}

	scope := sequence.ScopeDineIn
	if cmd.Takeout {
		scope = sequence.ScopeTakeout
	}

	var result *OrderResult
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		number, err := s.allocator.Allocate(ctx, scope, day)
		if err != nil {
			return err
		}

		// conta de viagem usa o próprio número do pedido como mesa
		tableKey := cmd.TableID
		if cmd.Takeout {
			tableKey = number
		}

		acc, created, err := s.ledger.ResolveOrCreate(ctx, day, tableKey, cmd.ActorID, now)
		if err != nil {
			return &AccountCreationError{Cause: err}
		}

		o := order.NewOrder(number, day, cmd.TableID, acc.ID, cmd.ActorID, cmd.Takeout, pricedCart.lines, now)
		if err := o.CheckTotals(); err != nil {
			return err
		}
		if err := s.orders.Create(ctx, o); err != nil {
			return fmt.Errorf("erro ao gravar pedido: %w", err)
		}

		updated, err := s.ledger.RecomputeTotal(ctx, acc.ID)
		if err != nil {
			return err
		}

		result = &OrderResult{
			Order:         o,
			AccountNumber: updated.SequenceNumber,
			AccountTotal:  updated.Total,
			AccountNew:    created,
			PromotionIDs:  pricedCart.result.PromotionIDs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, result.Order.AccountID)
	return result, nil
}

// Quote precifica um carrinho com as promoções vigentes sem gravar nada
func (s *OrderService) Quote(ctx context.Context, lines []LineInput) (*QuoteResult, error) {
	if err := s.validate.Struct(linesCommand{Lines: lines}); err != nil {
		return nil, validationError(err)
	}

	p, err := s.price(ctx, lines, s.calendar.Now())
	if err != nil {
		return nil, classify(err)
	}

	subtotal, discount := sumLines(p.lines)
	return &QuoteResult{
		Lines:         p.lines,
		Subtotal:      subtotal,
		DiscountTotal: discount,
		Total:         subtotal.Sub(discount),
		PromotionIDs:  p.result.PromotionIDs,
	}, nil
}

// GetOrder busca um pedido com seus itens
func (s *OrderService) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return o, nil
}

// ChangeOrderState avança ou cancela um pedido; ao cancelar, o total da
// conta é recalculado
func (s *OrderService) ChangeOrderState(ctx context.Context, id string, next order.State) (*order.Order, error) {
	if !next.IsValid() {
		return nil, &ValidationError{Field: "state", Message: "estado desconhecido"}
	}

	var o *order.Order
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if next == order.StateCancelled {
			acc, err := s.accounts.FindByID(ctx, o.AccountID)
			if err != nil {
				return err
			}
			if acc.State == account.StateSettled || acc.State == account.StateCancelled {
				return fmt.Errorf("%w: conta %s", order.ErrInvalidTransition, acc.State)
			}
		}

		if err := o.TransitionTo(next, s.calendar.Now()); err != nil {
			return err
		}
		if err := s.orders.UpdateState(ctx, o); err != nil {
			return err
		}

		if next == order.StateCancelled {
			if _, err := s.ledger.RecomputeTotal(ctx, o.AccountID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if next == order.StateCancelled {
		s.notify(ctx, o.AccountID)
	}
	s.logger.Info("estado do pedido alterado", "order_id", o.ID, "state", o.State)
	return o, nil
}

// ReplaceLines reprecifica um pedido pendente com novos itens
func (s *OrderService) ReplaceLines(ctx context.Context, id string, lines []LineInput) (*order.Order, error) {
	if err := s.validate.Struct(linesCommand{Lines: lines}); err != nil {
		return nil, validationError(err)
	}

	p, err := s.price(ctx, lines, s.calendar.Now())
	if err != nil {
		return nil, classify(err)
	}

	var o *order.Order
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !o.CanEditLines() {
			return order.ErrLinesLocked
		}

		acc, err := s.accounts.FindByID(ctx, o.AccountID)
		if err != nil {
			return err
		}
		if !acc.IsOpen() {
			return fmt.Errorf("%w: conta %s", order.ErrLinesLocked, acc.State)
		}

		o.SetLines(p.lines)
		o.UpdatedAt = s.calendar.Now()
		if err := o.CheckTotals(); err != nil {
			return err
		}
		if err := s.orders.ReplaceLines(ctx, o); err != nil {
			return err
		}

		_, err = s.ledger.RecomputeTotal(ctx, o.AccountID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	s.notify(ctx, o.AccountID)
	return o, nil
}

// linesCommand valida apenas a lista de itens
type linesCommand struct {
	Lines []LineInput `json:"lines" validate:"required,min=1,dive"`
}

func (s *OrderService) notify(ctx context.Context, accountID string) {
	acc, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		s.logger.Warn("erro ao carregar conta para notificação", "account_id", accountID, "error", err)
		return
	}
	s.notifier.AccountChanged(ctx, acc)
}

func (s *OrderService) emitSubmission(cmd SubmitOrderCommand, result *OrderResult, err error, elapsed time.Duration) {
	event := monitoring.Event{
		Level:      monitoring.LevelInfo,
		Event:      "order.submitted",
		DurationMs: elapsed.Milliseconds(),
		Outcome:    "ok",
		Fields: map[string]any{
			"actor_id": cmd.ActorID,
			"takeout":  cmd.Takeout,
			"table_id": cmd.TableID,
			"lines":    len(cmd.Lines),
		},
	}

	if result != nil {
		event.Fields["order_id"] = result.Order.ID
		event.Fields["sequence_number"] = result.Order.SequenceNumber
		event.Fields["account_id"] = result.Order.AccountID
		event.Fields["total"] = result.Order.Total.String()
	}

	var (
		validationErr  *ValidationError
		referentialErr *ReferentialIntegrityError
		accountErr     *AccountCreationError
	)
	switch {
	case err == nil:
	case errors.As(err, &validationErr), errors.As(err, &referentialErr):
		event.Outcome = "rejected"
		event.Fields["reason"] = err.Error()
	case errors.Is(err, sequence.ErrAllocationExhausted) && !errors.As(err, &accountErr):
		event.Level = monitoring.LevelError
		event.Outcome = "sequence_exhausted"
		s.logger.Error("limite de tentativas de numeração atingido", "error", err)
	case errors.As(err, &accountErr):
		event.Level = monitoring.LevelError
		event.Outcome = "account_creation_failed"
		s.logger.Error("erro ao abrir conta", "table_id", cmd.TableID, "error", accountErr.Cause)
	default:
		cause := err
		var internalErr *InternalError
		if errors.As(err, &internalErr) {
			cause = internalErr.Cause
		}
		event.Level = monitoring.LevelError
		event.Outcome = "internal_error"
		s.logger.Error("erro ao registrar pedido",
			"operation", "order.submit",
			"actor_id", cmd.ActorID,
			"table_id", cmd.TableID,
			"error", cause,
			"error_chain", errorChain(cause),
		)
	}

	s.sink.Emit(event)
}

// classify mantém os erros de domínio conhecidos e encobre o resto como InternalError
func classify(err error) error {
	if err == nil {
		return nil
	}

	var (
		validationErr  *ValidationError
		referentialErr *ReferentialIntegrityError
		accountErr     *AccountCreationError
		internalErr    *InternalError
	)
	if errors.As(err, &validationErr) || errors.As(err, &referentialErr) ||
		errors.As(err, &accountErr) || errors.As(err, &internalErr) {
		return err
	}

	known := []error{
		sequence.ErrAllocationExhausted,
		order.ErrOrderNotFound,
		order.ErrInvalidTransition,
		order.ErrLinesLocked,
		account.ErrAccountNotFound,
		account.ErrInvalidTransition,
		account.ErrAccountHasOrders,
		context.Canceled,
		context.DeadlineExceeded,
	}
	for _, target := range known {
		if errors.Is(err, target) {
			return err
		}
	}

	return &InternalError{Cause: err}
}
