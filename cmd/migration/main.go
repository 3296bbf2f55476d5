package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/hugohenrick/restaurante-pedidos/internal/config"
	"github.com/hugohenrick/restaurante-pedidos/internal/infrastructure/database"
)

func main() {
	down := flag.Bool("down", false, "desfaz a última migração")
	flag.Parse()

	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	migrator, err := database.NewMigrator(cfg.MigrationsPath, cfg.ConnectionString())
	if err != nil {
		log.Fatalf("Erro ao preparar migrações: %v", err)
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Printf("Erro ao fechar migrador: %v", err)
		}
	}()

	if *down {
		err = migrator.Down()
	} else {
		err = migrator.Up()
	}
	if err != nil {
		log.Fatalf("Erro ao executar migrações: %v", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		log.Fatalf("Erro ao ler versão do esquema: %v", err)
	}
	log.Printf("Migrações executadas com sucesso! Versão %d (dirty=%t)", version, dirty)
}
