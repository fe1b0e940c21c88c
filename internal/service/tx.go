package service

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// nowFunc é indireção sobre o relógio para os testes.
var nowFunc = time.Now

// runTx abre uma transação quando há banco; com db nil (testes unitários com
// stubs de repositório) executa fn diretamente, sem transação.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
