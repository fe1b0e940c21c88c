package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Bcardoso2/frigo-galeno-api/internal/model"
)

// NewDatabase abre a conexão GORM com o Postgres e roda o AutoMigrate de todas
// as tabelas. As models carregam a precisão decimal nas tags, então o schema
// gerado já respeita os tipos monetários e de peso.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Produto{},
		&model.Estoque{},
		&model.MovimentoEstoque{},
		&model.EstoqueAnimal{},
		&model.EstoqueAnimalTipo{},
		&model.ProdutoEstoqueAnimal{},
		&model.Venda{},
		&model.VendaItem{},
		&model.AlertaEscassez{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}
