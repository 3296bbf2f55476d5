package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/hugohenrick/restaurante-pedidos/internal/domain/account"
	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// AccountNotifier avisa interessados sobre mudanças de conta; falhas não
// chegam ao chamador
type AccountNotifier interface {
	AccountChanged(ctx context.Context, a *account.Account)
}

// AccountMessage é o payload publicado
type AccountMessage struct {
	AccountID      string          `json:"account_id"`
	SequenceNumber string          `json:"sequence_number"`
	TableID        string          `json:"table_id"`
	Total          decimal.Decimal `json:"total"`
	State          account.State   `json:"state"`
}

// Channel retorna o canal Redis de uma conta
func Channel(accountID string) string {
	return fmt.Sprintf("account:%s", accountID)
}

// Publisher é o subconjunto do cliente Redis usado aqui
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publica o total da conta no canal account:<id>
type RedisNotifier struct {
	client Publisher
	logger logger.Logger
}

// NewRedisNotifier cria o notificador
func NewRedisNotifier(client Publisher, log logger.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: log}
}

// AccountChanged implementa AccountNotifier
func (n *RedisNotifier) AccountChanged(ctx context.Context, a *account.Account) {
	payload, err := json.Marshal(AccountMessage{
		AccountID:      a.ID,
		SequenceNumber: a.SequenceNumber,
		TableID:        a.TableID,
		Total:          a.Total,
		State:          a.State,
	})
	if err != nil {
		n.logger.Warn("erro ao serializar notificação de conta", "account_id", a.ID, "error", err)
		return
	}

	if err := n.client.Publish(ctx, Channel(a.ID), payload).Err(); err != nil {
		n.logger.Warn("erro ao publicar notificação de conta", "account_id", a.ID, "error", err)
	}
}

// NopNotifier não publica nada
type NopNotifier struct{}

// AccountChanged implementa AccountNotifier
func (NopNotifier) AccountChanged(context.Context, *account.Account) {}
