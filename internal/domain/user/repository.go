package user

import (
	"context"
)

// Repository define a interface para operações de repositório de usuários
type Repository interface {
	// FindByID busca um usuário pelo ID
	FindByID(ctx context.Context, id string) (*User, error)

	// Exists verifica se um usuário ativo existe
	Exists(ctx context.Context, id string) (bool, error)
}
