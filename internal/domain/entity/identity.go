package entity

// Roles del tablero. USER es el prestador (IPS): solo opera sobre su propio código.
const (
	RoleAdmin   = "ADMIN"
	RoleUser    = "USER"
	RoleAnalyst = "ANALYST"
)

// Identity identidad del llamador, ya autenticada por el proveedor de identidad.
type Identity struct {
	UserID             string
	Role               string
	CodigoHabilitacion string // vacío para ADMIN y ANALYST
	Nombre             string
}

// IsProvider indica si el llamador tiene el rol restringido de prestador.
func (i Identity) IsProvider() bool {
	return i.Role == RoleUser
}
