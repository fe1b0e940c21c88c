// Package apierror padroniza o envelope de erro das respostas HTTP.
// Todo erro devolvido a clientes passa por aqui para garantir consistência
// e impedir o vazamento de detalhes internos (stack traces, erros de banco).
package apierror

// APIError é o envelope canônico para respostas 4xx/5xx.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError agrupa erros de campo.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Erro de validação", Fields: fields}
}
