package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/hugohenrick/restaurante-pedidos/internal/adapter/repository"
	"github.com/hugohenrick/restaurante-pedidos/internal/config"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/database"
	"github.com/hugohenrick/restaurante-pedidos/pkg/auth"
	"github.com/hugohenrick/restaurante-pedidos/pkg/logger"
)

// Emite um token de acesso para um usuário cadastrado. Os terminais do salão
// recebem o token na instalação.
func main() {
	userID := flag.String("user", "", "ID do usuário")
	flag.Parse()

	if *userID == "" {
		log.Fatal("Informe o usuário com -user")
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgresDB(ctx, database.PostgresConfig{ConnString: cfg.ConnectionString()}, logger.NopLogger{})
	if err != nil {
		log.Fatalf("Erro ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	u, err := repository.NewUserRepository(db).FindByID(ctx, *userID)
	if err != nil {
		log.Fatalf("Erro ao buscar usuário: %v", err)
	}
	if !u.IsActive() {
		log.Fatalf("Usuário %s está inativo", u.ID)
	}

	jwtService, err := auth.NewJWTService(cfg.JWTSecretKey, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		log.Fatalf("Erro ao configurar JWT: %v", err)
	}

	token, err := jwtService.GenerateToken(u)
	if err != nil {
		log.Fatalf("Erro ao gerar token: %v", err)
	}
	fmt.Println(token)
}
