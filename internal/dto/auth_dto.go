package dto

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	User        UsuarioResponse `json:"user"`
}

type UsuarioResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	NombreCompleto string `json:"nombre_completo"`
	Cargo          string `json:"cargo"`
	Rol            string `json:"rol"`
	Turno          string `json:"turno"`
}

// Actor identifies who performs a mutation, for activity logging.
type Actor struct {
	Username string
	IP       string
}
