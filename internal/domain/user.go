package domain

// User es el usuario autenticado tal como lo expone el servicio de auth.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Credentials son las credenciales de login; nunca se validan en este servicio.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration son los datos de alta de un usuario.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult es la respuesta del colaborador de auth.
type LoginResult struct {
	Token string `json:"access_token"`
	User  User   `json:"user"`
}
