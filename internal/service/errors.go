package service

import (
	"errors"
	"fmt"
)

// ValidationError indica dados de entrada inválidos. Nada foi gravado.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ReferentialIntegrityError indica uma linha que referencia um item de
// cardápio inexistente ou inativo
type ReferentialIntegrityError struct {
	LineIndex  int
	MenuItemID int64
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("item %d: item do cardápio %d não encontrado", e.LineIndex, e.MenuItemID)
}

// AccountCreationError indica que a conta da mesa não pôde ser aberta
type AccountCreationError struct {
	Cause error
}

func (e *AccountCreationError) Error() string {
	return fmt.Sprintf("erro ao abrir conta: %v", e.Cause)
}

func (e *AccountCreationError) Unwrap() error {
	return e.Cause
}

// InternalError encobre falhas não classificadas; a causa só vai para o log
type InternalError struct {
	Cause error
}

func (e *InternalError) Error() string {
	return "erro interno"
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

// errorChain lista cada camada do erro, da mais externa para a causa raiz
func errorChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, fmt.Sprintf("%T: %v", err, err))
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				chain = append(chain, errorChain(inner)...)
			}
			break
		}
		err = errors.Unwrap(err)
	}
	return chain
}
