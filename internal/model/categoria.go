package model

import "github.com/Lovoh17/Al-Punto-Admin-sub000/internal/envelope"

// Categoria classifies products. TotalProductos is computed server-side and
// guards deletion: a category still holding products cannot be removed.
type Categoria struct {
	ID             int64             `json:"id" validate:"required"`
	Nombre         string            `json:"nombre" validate:"required"`
	Descripcion    string            `json:"descripcion,omitempty"`
	Activo         envelope.FlexBool `json:"activo"`
	TotalProductos int               `json:"total_productos"`
}

// Eliminable reports whether the category can be deleted.
func (c Categoria) Eliminable() bool { return c.TotalProductos == 0 }
