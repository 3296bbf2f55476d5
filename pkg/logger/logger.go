package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	logging "github.com/op/go-logging"
)

const defaultFormat = `%{time:2006-01-02 15:04:05} %{level:.5s} %{module} %{message}`

// Logger é a interface para logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// LevelLogger é a implementação de Logger sobre o go-logging
type LevelLogger struct {
	log *logging.Logger
}

// NewLogger cria um logger para o módulo informado, escrevendo em stdout
func NewLogger(module, level string) (Logger, error) {
	return NewLoggerWithWriter(os.Stdout, module, level)
}

// NewLoggerWithWriter cria um logger com saída própria
func NewLoggerWithWriter(w io.Writer, module, level string) (Logger, error) {
	backend := logging.NewLogBackend(w, "", 0)
	formatter := logging.NewBackendFormatter(backend, logging.MustStringFormatter(defaultFormat))
	leveled := logging.AddModuleLevel(formatter)

	if level == "" {
		level = "INFO"
	}
	code, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		return nil, fmt.Errorf("nível de log inválido %q: %w", level, err)
	}
	leveled.SetLevel(code, module)

	log := logging.MustGetLogger(module)
	log.SetBackend(leveled)
	return &LevelLogger{log: log}, nil
}

// Info registra uma mensagem de informação
func (l *LevelLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(format(msg, keysAndValues))
}

// Error registra uma mensagem de erro
func (l *LevelLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error(format(msg, keysAndValues))
}

// Debug registra uma mensagem de debug
func (l *LevelLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug(format(msg, keysAndValues))
}

// Warn registra uma mensagem de aviso
func (l *LevelLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warning(format(msg, keysAndValues))
}

// format junta os pares chave/valor como "chave=valor"
func format(msg string, keysAndValues []interface{}) string {
	if len(keysAndValues) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(keysAndValues); i += 2 {
		b.WriteByte(' ')
		if i+1 < len(keysAndValues) {
			fmt.Fprintf(&b, "%v=%v", keysAndValues[i], keysAndValues[i+1])
		} else {
			fmt.Fprintf(&b, "%v", keysAndValues[i])
		}
	}
	return b.String()
}

// NopLogger descarta todas as mensagens
type NopLogger struct{}

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Warn(string, ...interface{})  {}
