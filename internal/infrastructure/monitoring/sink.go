package monitoring

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// Níveis de evento
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Event é um registro estruturado enviado ao coletor externo
type Event struct {
	Level      string         `json:"level"`
	Event      string         `json:"event"`
	DurationMs int64          `json:"duration_ms"`
	Outcome    string         `json:"outcome"`
	Fields     map[string]any `json:"fields,omitempty"`
	At         time.Time      `json:"at"`
}

// Sink recebe eventos sem bloquear o chamador
type Sink interface {
	Emit(e Event)
}

// NopSink descarta todos os eventos
type NopSink struct{}

// Emit implementa Sink
func (NopSink) Emit(Event) {}

// Publisher entrega um evento já serializado
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// BufferedSink guarda os eventos num buffer limitado e os publica em segundo
// plano. Com o buffer cheio o evento é descartado.
type BufferedSink struct {
	events    chan Event
	publisher Publisher
	logger    logger.Logger
	dropped   atomic.Int64
	timeout   time.Duration
}

// NewBufferedSink cria o sink com capacidade size
func NewBufferedSink(publisher Publisher, size int, log logger.Logger) *BufferedSink {
	if size <= 0 {
		size = 1
	}
	return &BufferedSink{
		events:    make(chan Event, size),
		publisher: publisher,
		logger:    log,
		timeout:   2 * time.Second,
	}
}

// Emit implementa Sink
func (s *BufferedSink) Emit(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	select {
	case s.events <- e:
	default:
		s.dropped.Add(1)
	}
}

// Dropped retorna quantos eventos foram descartados
func (s *BufferedSink) Dropped() int64 {
	return s.dropped.Load()
}

// Run publica os eventos até o contexto ser cancelado
func (s *BufferedSink) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-s.events:
			s.publish(ctx, e)
		}
	}
}

func (s *BufferedSink) publish(ctx context.Context, e Event) {
	body, err := json.Marshal(e)
	if err != nil {
		s.logger.Warn("evento de monitoramento inválido", "event", e.Event, "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, e.Level+"."+e.Event, body); err != nil {
		s.dropped.Add(1)
		s.logger.Debug("falha ao publicar evento de monitoramento", "event", e.Event, "error", err)
	}
}
