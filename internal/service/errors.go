package service

import "errors"

// Erros de negócio expostos pelos services. Os handlers mapeiam cada um para o
// status HTTP adequado; qualquer outro erro (falha de banco, etc.) vira 500
// opaco — detalhe interno nunca chega ao cliente.
var (
	ErrEntradaInvalida       = errors.New("dados inválidos para registro de venda")
	ErrProdutoNaoEncontrado  = errors.New("produto não encontrado")
	ErrProdutoInativo        = errors.New("produto inativo não pode ser vendido")
	ErrEstoqueInsuficiente   = errors.New("estoque insuficiente")
	ErrEstoqueNaoEncontrado  = errors.New("estoque não encontrado para este produto")
	ErrVendaNaoEncontrada    = errors.New("venda não encontrada")
	ErrVendaJaCancelada      = errors.New("venda já cancelada")
	ErrLoteNaoEncontrado     = errors.New("registro de estoque animal não encontrado")
	ErrAssociacaoInexistente = errors.New("associação não encontrada")
	ErrCodigoProdutoExiste   = errors.New("já existe um produto com este código")
	ErrCredenciaisInvalidas  = errors.New("credenciais inválidas")
	ErrUsuarioNaoEncontrado  = errors.New("usuário não encontrado")
)
