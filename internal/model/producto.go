package model

import (
	"github.com/shopspring/decimal"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/envelope"
)

// Producto is a catalog item. Precio is the base price; a daily menu may
// override it per entry (see MenuProducto.PrecioEfectivo) without ever
// touching this value.
type Producto struct {
	ID          int64             `json:"id" validate:"required"`
	Nombre      string            `json:"nombre" validate:"required"`
	Descripcion string            `json:"descripcion,omitempty"`
	Precio      decimal.Decimal   `json:"precio"`
	CategoriaID int64             `json:"categoria_id"`
	Disponible  envelope.FlexBool `json:"disponible"`
	Destacado   envelope.FlexBool `json:"destacado"`
	Imagen      string            `json:"imagen,omitempty" validate:"omitempty,url"`
}
