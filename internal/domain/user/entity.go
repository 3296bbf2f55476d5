package user

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("usuário não encontrado")
)

// Role representa o papel do autor de um pedido
type Role string

// Status representa o status do usuário
type Status string

// Constantes para Role
const (
	RoleWaiter   Role = "waiter"   // Garçom
	RoleCashier  Role = "cashier"  // Caixa
	RoleManager  Role = "manager"  // Gerente
	RoleCustomer Role = "customer" // Cliente da loja online
)

// Constantes para Status
const (
	StatusActive   Status = "active"   // Usuário ativo
	StatusInactive Status = "inactive" // Usuário inativo
)

// User é o autor de um pedido. A identidade vem resolvida do token; aqui só
// se confirma que ela existe.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive verifica se o usuário está ativo
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
