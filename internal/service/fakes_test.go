package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/menu"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/order"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/promotion"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/sequence"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/user"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/monitoring"
)

// memoryStore implementa todos os repositórios em memória. WithinTransaction
// tira uma cópia do estado e a restaura se fn falhar.
type memoryStore struct {
	mu           sync.Mutex
	users        map[string]*user.User
	menu         map[int64]*menu.Item
	promotions   []promotion.Promotion
	reservations map[string]bool
	accounts     map[string]account.Account
	orders       map[string]order.Order

	failOrderCreate   error
	failAccountCreate error
	locked            []string // contas bloqueadas via FindForUpdate
}

type snapshot struct {
	reservations map[string]bool
	accounts     map[string]account.Account
	orders       map[string]order.Order
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        make(map[string]*user.User),
		menu:         make(map[int64]*menu.Item),
		reservations: make(map[string]bool),
		accounts:     make(map[string]account.Account),
		orders:       make(map[string]order.Order),
	}
}

func (s *memoryStore) snapshot() snapshot {
	snap := snapshot{
		reservations: make(map[string]bool, len(s.reservations)),
		accounts:     make(map[string]account.Account, len(s.accounts)),
		orders:       make(map[string]order.Order, len(s.orders)),
	}
	for k, v := range s.reservations {
		snap.reservations[k] = v
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	return snap
}

func (s *memoryStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.reservations, s.accounts, s.orders = snap.reservations, snap.accounts, snap.orders
		s.mu.Unlock()
		return err
	}
	return nil
}

// sequence.Repository

func reservationKey(scope sequence.Scope, day calendar.Day, number string) string {
	return fmt.Sprintf("%s|%s|%s", scope, day, number)
}

func (s *memoryStore) Count(ctx context.Context, scope sequence.Scope, day calendar.Day) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := fmt.Sprintf("%s|%s|", scope, day)
	n := 0
	for k := range s.reservations {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) Reserve(ctx context.Context, scope sequence.Scope, day calendar.Day, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reservationKey(scope, day, number)
	if s.reservations[key] {
		return sequence.ErrDuplicateNumber
	}
	s.reservations[key] = true
	return nil
}

// user.Repository

type userRepo struct{ *memoryStore }

func (r userRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (r userRepo) Exists(ctx context.Context, id string) (bool, error) {
	u, ok := r.users[id]
	return ok && u.IsActive(), nil
}

// menu.Repository

func (s *memoryStore) FindByIDs(ctx context.Context, ids []int64) (map[int64]*menu.Item, error) {
	items := make(map[int64]*menu.Item)
	for _, id := range ids {
		if item, ok := s.menu[id]; ok {
			items[id] = item
		}
	}
	return items, nil
}

// promotion.Repository

type promotionRepo struct{ *memoryStore }

func (r promotionRepo) ListActive(ctx context.Context) ([]promotion.Promotion, error) {
	var active []promotion.Promotion
	for _, p := range r.promotions {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

func (r promotionRepo) FindByID(ctx context.Context, id int64) (*promotion.Promotion, error) {
	for _, p := range r.promotions {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, promotion.ErrPromotionNotFound
}

// account.Repository

type accountRepo struct{ *memoryStore }

func (r accountRepo) Create(ctx context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAccountCreate != nil {
		return r.failAccountCreate
	}
	for _, existing := range r.accounts {
		if existing.BusinessDay == a.BusinessDay && existing.SequenceNumber == a.SequenceNumber {
			return sequence.ErrDuplicateNumber
		}
		if existing.State == account.StateOpen && existing.BusinessDay == a.BusinessDay && existing.TableID == a.TableID {
			return account.ErrOpenAccountExists
		}
	}
	r.accounts[a.ID] = *a
	return nil
}

func (r accountRepo) FindByID(ctx context.Context, id string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return &a, nil
}

func (r accountRepo) FindForUpdate(ctx context.Context, id string) (*account.Account, error) {
	r.mu.Lock()
	r.locked = append(r.locked, id)
	r.mu.Unlock()
	return r.FindByID(ctx, id)
}

func (r accountRepo) FindOpen(ctx context.Context, day calendar.Day, tableID string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.State == account.StateOpen && a.BusinessDay == day && a.TableID == tableID {
			return &a, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (r accountRepo) List(ctx context.Context, filter account.Filter) ([]*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*account.Account
	for _, a := range r.accounts {
		if filter.Day != nil && a.BusinessDay != *filter.Day {
			continue
		}
		if filter.State != "" && a.State != filter.State {
			continue
		}
		copied := a
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

func (r accountRepo) ListOpenBefore(ctx context.Context, day calendar.Day) ([]*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*account.Account
	for _, a := range r.accounts {
		if a.State == account.StateOpen && a.BusinessDay.Before(day) {
			copied := a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r accountRepo) SumActiveOrders(ctx context.Context, accountID string) (decimal.Decimal, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total, count := decimal.Zero, 0
	for _, o := range r.orders {
		if o.AccountID == accountID && o.State != order.StateCancelled {
			total = total.Add(o.Total)
			count++
		}
	}
	return total, count, nil
}

func (r accountRepo) UpdateTotal(ctx context.Context, id string, total decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	a.Total = total
	r.accounts[id] = a
	return nil
}

func (r accountRepo) UpdateState(ctx context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[a.ID]
	if !ok {
		return account.ErrAccountNotFound
	}
	updated := *a
	updated.Total = stored.Total
	r.accounts[a.ID] = updated
	return nil
}

// order.Repository

type orderRepo struct{ *memoryStore }

func (r orderRepo) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOrderCreate != nil {
		return r.failOrderCreate
	}
	for _, existing := range r.orders {
		if existing.BusinessDay == o.BusinessDay && existing.SequenceNumber == o.SequenceNumber {
			return sequence.ErrDuplicateNumber
		}
	}
	copied := *o
	copied.Lines = append([]order.Line(nil), o.Lines...)
	r.orders[o.ID] = copied
	return nil
}

func (r orderRepo) FindByID(ctx context.Context, id string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	o.Lines = append([]order.Line(nil), o.Lines...)
	return &o, nil
}

func (r orderRepo) ListByAccount(ctx context.Context, accountID string) ([]*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*order.Order
	for _, o := range r.orders {
		if o.AccountID == accountID {
			copied := o
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNumber < out[j].SequenceNumber })
	return out, nil
}

func (r orderRepo) UpdateState(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.orders[o.ID]
	if !ok {
		return order.ErrOrderNotFound
	}
	existing.State = o.State
	existing.UpdatedAt = o.UpdatedAt
	r.orders[o.ID] = existing
	return nil
}

func (r orderRepo) ReplaceLines(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; !ok {
		return order.ErrOrderNotFound
	}
	copied := *o
	copied.Lines = append([]order.Line(nil), o.Lines...)
	r.orders[o.ID] = copied
	return nil
}

// recordingSink guarda os eventos emitidos
type recordingSink struct {
	mu     sync.Mutex
	events []monitoring.Event
}

func (s *recordingSink) Emit(e monitoring.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) last() monitoring.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[len(s.events)-1]
}

// recordingNotifier guarda as contas notificadas
type recordingNotifier struct {
	accounts []account.Account
}

func (n *recordingNotifier) AccountChanged(ctx context.Context, a *account.Account) {
	n.accounts = append(n.accounts, *a)
}

// exhaustedAllocator simula o limite de tentativas atingido
type exhaustedAllocator struct{}

func (exhaustedAllocator) Allocate(ctx context.Context, scope sequence.Scope, day calendar.Day) (string, error) {
	return "", fmt.Errorf("%w: teste", sequence.ErrAllocationExhausted)
}

var errStorage = errors.New("conexão perdida")

type logEntry struct {
	msg    string
	fields map[string]any
}

// recordingLogger guarda as mensagens de erro com seus campos
type recordingLogger struct {
	mu     sync.Mutex
	errors []logEntry
}

func (l *recordingLogger) Error(msg string, kv ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fields := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	l.errors = append(l.errors, logEntry{msg: msg, fields: fields})
}

func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Warn(string, ...interface{})  {}

const (
	waiterID = "7f8c1a52-5a8e-4c0e-9f4b-2f3d6c1e9a10"
	drinkID  = int64(7)
	tacoID   = int64(8)
	sodaID   = int64(9)
)

// lunchTime é uma quarta-feira, 13:00 na Cidade do México
var lunchTime = time.Date(2026, time.October, 14, 19, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memoryStore
	sink     *recordingSink
	notifier *recordingNotifier
	orders   *OrderService
	accounts *AccountService
	calendar *calendar.BusinessCalendar
}

func newFixture(opts ...func(*Dependencies)) *fixture {
	store := newMemoryStore()
	store.users[waiterID] = &user.User{ID: waiterID, Name: "Rosa", Role: user.RoleWaiter, Status: user.StatusActive}
	store.menu[drinkID] = &menu.Item{ID: drinkID, Name: "Agua de horchata", Category: "drinks", Price: decimal.NewFromInt(12), Active: true}
	store.menu[tacoID] = &menu.Item{ID: tacoID, Name: "Taco al pastor", Category: "tacos", Price: decimal.NewFromInt(20), Active: true}
	store.menu[sodaID] = &menu.Item{ID: sodaID, Name: "Refresco", Category: "drinks", Price: decimal.NewFromInt(15), Active: true}
	store.promotions = []promotion.Promotion{{
		ID:             1,
		Name:           "2x1 horchata",
		Active:         true,
		ItemsRequired:  2,
		ItemsFree:      1,
		ApplicableDays: []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
		EligibleItems:  []promotion.EligibleItem{{MenuItemID: drinkID, Price: decimal.NewFromInt(12), Category: "drinks"}},
		CreatedAt:      time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}}

	cal, err := calendar.NewBusinessCalendar(calendar.FixedClock{At: lunchTime}, "America/Mexico_City")
	if err != nil {
		panic(err)
	}

	allocator := sequence.NewAllocator(store, store, sequence.DefaultMaxAttempts)
	accounts := accountRepo{store}
	sink := &recordingSink{}
	notifier := &recordingNotifier{}

	deps := Dependencies{
		Transactor: store,
		Users:      userRepo{store},
		Menu:       store,
		Promotions: promotionRepo{store},
		Orders:     orderRepo{store},
		Accounts:   accounts,
		Allocator:  allocator,
		Ledger:     account.NewLedger(accounts, allocator),
		Engine:     promotion.NewEngine(promotion.FirstCreated{}),
		Calendar:   cal,
		Sink:       sink,
		Notifier:   notifier,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	return &fixture{
		store:    store,
		sink:     sink,
		notifier: notifier,
		orders:   NewOrderService(deps),
		accounts: NewAccountService(deps),
		calendar: cal,
	}
}

func ptr(v int64) *int64 {
	return &v
}
