package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/calendar"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/promotion"
	"github.com/hugohenrick/restaurante-pedidos/internal/domain/sequence"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/database"
	"github.com/hugohenrick/restaurante-pedidos/internal/service"
	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// Estes testes só rodam com TEST_DATABASE_URL apontando para um banco descartável
func openTestDB(t *testing.T) *database.PostgresDB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL não definido")
	}

	migrator, err := database.NewMigrator("../../../migrations", url)
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Close())

	db, err := database.NewPostgresDB(context.Background(), database.PostgresConfig{ConnString: url, MaxConnections: 30}, logger.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

// uniqueDay evita colisão com dados de execuções anteriores
func uniqueDay() calendar.Day {
	offset := int(time.Now().UnixNano() % 300000)
	return calendar.NewDay(2200, time.January, 1+offset)
}

func insertActor(t *testing.T, db *database.PostgresDB) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Pool().Exec(context.Background(),
		`INSERT INTO users (id, name, email, role) VALUES ($1, 'Mesero', $2, 'waiter')`,
		id, id+"@test.local")
	require.NoError(t, err)
	return id
}

func newTestServices(t *testing.T, db *database.PostgresDB) (*service.OrderService, *service.AccountService) {
	t.Helper()
	cal, err := calendar.NewBusinessCalendar(nil, "UTC")
	require.NoError(t, err)

	accounts := NewAccountRepository(db)
	allocator := sequence.NewAllocator(NewSequenceRepository(db), db, 100)
	deps := service.Dependencies{
		Transactor: db,
		Users:      NewUserRepository(db),
		Menu:       NewMenuRepository(db),
		Promotions: NewPromotionRepository(db),
		Orders:     NewOrderRepository(db),
		Accounts:   accounts,
		Allocator:  allocator,
		Ledger:     account.NewLedger(accounts, allocator),
		Engine:     promotion.NewEngine(nil),
		Calendar:   cal,
	}
	return service.NewOrderService(deps), service.NewAccountService(deps)
}

func TestPostgresConcurrentAllocationIsUnique(t *testing.T) {
	db := openTestDB(t)
	allocator := sequence.NewAllocator(NewSequenceRepository(db), db, 100)
	day := uniqueDay()

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[string]int{}
		errs    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := allocator.Allocate(context.Background(), sequence.ScopeDineIn, day)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers[number]++
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, numbers, workers)
	for number, n := range numbers {
		assert.Equal(t, 1, n, number)
	}
}

func TestPostgresConcurrentResolveOpensOneAccount(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	actorID := insertActor(t, db)

	accounts := NewAccountRepository(db)
	ledger := account.NewLedger(accounts, sequence.NewAllocator(NewSequenceRepository(db), db, 100))
	day := uniqueDay()

	const workers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[string]bool{}
		created int
		errs    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, isNew, err := ledger.ResolveOrCreate(ctx, day, "5", actorID, time.Now())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids[a.ID] = true
			if isNew {
				created++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, created)

	open, err := accounts.FindOpen(ctx, day, "5")
	require.NoError(t, err)
	assert.True(t, ids[open.ID])
	assert.Equal(t, "Cuenta 001", open.SequenceNumber)
}

func TestPostgresConcurrentSubmitKeepsAccountTotal(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	actorID := insertActor(t, db)

	var itemID int64
	require.NoError(t, db.Pool().QueryRow(ctx,
		`INSERT INTO menu_items (name, category, price) VALUES ('Tamal', 'antojitos', 10) RETURNING id`,
	).Scan(&itemID))

	orders, accounts := newTestServices(t, db)
	day := uniqueDay()

	const workers = 12
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ids  = map[string]bool{}
		errs []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := orders.Submit(ctx, service.SubmitOrderCommand{
				ActorID: actorID,
				TableID: "9",
				Lines:   []service.LineInput{{MenuItemID: &itemID, Quantity: 1}},
				Day:     &day,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			ids[result.Order.AccountID] = true
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, ids, 1)
	var accountID string
	for id := range ids {
		accountID = id
	}

	sum, count, err := NewAccountRepository(db).SumActiveOrders(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, workers, count)
	assert.True(t, decimal.NewFromInt(10*workers).Equal(sum), sum.String())

	details, err := accounts.GetAccount(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(details.Account.Total), details.Account.Total.String())

	closed, err := accounts.CloseAccount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, account.StateClosed, closed.State)
	reloaded, err := NewAccountRepository(db).FindByID(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(reloaded.Total))
}

func TestPostgresUpdateStateLeavesTotal(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	actorID := insertActor(t, db)
	repo := NewAccountRepository(db)

	a, err := account.NewAccount("Cuenta 001", uniqueDay(), "3", actorID, time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.UpdateTotal(ctx, a.ID, decimal.NewFromInt(42)))

	// cópia lida antes do último recálculo
	require.NoError(t, a.Close(time.Now()))
	require.NoError(t, repo.UpdateState(ctx, a))

	reloaded, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, account.StateClosed, reloaded.State)
	assert.True(t, decimal.NewFromInt(42).Equal(reloaded.Total), reloaded.Total.String())
}
