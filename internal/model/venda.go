package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Formas de pagamento aceitas. "dinheiro" é o default quando não informada.
const (
	PagamentoDinheiro = "dinheiro"
	PagamentoPix      = "pix"
	PagamentoCredito  = "cartao_credito"
	PagamentoDebito   = "cartao_debito"
	PagamentoOutro    = "outro"
)

// FormaPagamentoValida reporta se o valor é uma forma de pagamento aceita.
func FormaPagamentoValida(fp string) bool {
	switch fp {
	case PagamentoDinheiro, PagamentoPix, PagamentoCredito, PagamentoDebito, PagamentoOutro:
		return true
	}
	return false
}

// Venda é criada exclusivamente pelo fluxo de registro e nunca mais alterada,
// exceto os campos de cancelamento.
type Venda struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	DataHora       time.Time       `gorm:"not null"`
	ValorTotal     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	FormaPagamento string          `gorm:"type:varchar(20);not null;default:'dinheiro'"`
	Finalizada     bool            `gorm:"not null;default:true"`
	Cancelada      bool            `gorm:"not null;default:false"`
	// MotivoCancelamento recebe "Não informado" quando o cancelamento não traz motivo.
	MotivoCancelamento *string
	Observacao         *string
	// EscassezMateriaPrima marca vendas cujo rateio não encontrou matéria-prima
	// suficiente. O desconto de matéria-prima é contábil, não bloqueante.
	EscassezMateriaPrima bool `gorm:"not null;default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Usuario *Usuario    `gorm:"foreignKey:UsuarioID"`
	Itens   []VendaItem `gorm:"foreignKey:VendaID"`
}

func (Venda) TableName() string { return "vendas" }

// VendaItem congela preço e quantidade no momento da venda.
// ValorTotal = round(quantidade_kg × preco_kg, 2).
type VendaItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID    uuid.UUID       `gorm:"type:uuid;not null"`
	QuantidadeKg decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PrecoKg      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ValorTotal   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CodigoBarras *string
	CreatedAt    time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (VendaItem) TableName() string { return "venda_itens" }
