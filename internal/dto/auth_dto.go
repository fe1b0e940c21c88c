package dto

type LoginRequest struct {
	Login    string `json:"login"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UsuarioResponse struct {
	ID    string  `json:"id"`
	Login string  `json:"login"`
	Nome  string  `json:"nome"`
	Email *string `json:"email,omitempty"`
	Role  string  `json:"role"`
	Ativo bool    `json:"ativo"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	User         UsuarioResponse `json:"user"`
}

type CriarUsuarioRequest struct {
	Login    string  `json:"login"    validate:"required,min=3"`
	Nome     string  `json:"nome"     validate:"required"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role"     validate:"required,oneof=admin operador"`
}

type AtualizarUsuarioRequest struct {
	Nome     *string `json:"nome"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role"     validate:"omitempty,oneof=admin operador"`
}
