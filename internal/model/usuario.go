package model

import "github.com/Lovoh17/Al-Punto-Admin-sub000/internal/envelope"

// Rol is assigned by the backend; the client only reflects it.
type Rol string

const (
	RolAdministrador Rol = "administrador"
	RolEmpleado      Rol = "empleado"
	RolMesero        Rol = "mesero"
	RolCocina        Rol = "cocina"
	RolCliente       Rol = "cliente"
)

// Usuario is a system user with role-based access.
type Usuario struct {
	ID       int64             `json:"id" validate:"required"`
	Nombre   string            `json:"nombre"`
	Email    string            `json:"email" validate:"omitempty,email"`
	Rol      Rol               `json:"rol" validate:"required"`
	Activo   envelope.FlexBool `json:"activo"`
	Telefono string            `json:"telefono,omitempty"`
}
