package model

import (
	"github.com/shopspring/decimal"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/envelope"
)

// MenuDia is a daily menu. TotalProductos and TotalVentas are computed
// server-side and only reflected here.
type MenuDia struct {
	ID             int64             `json:"id" validate:"required"`
	Nombre         string            `json:"nombre" validate:"required"`
	Fecha          Fecha             `json:"fecha"`
	Descripcion    string            `json:"descripcion,omitempty"`
	Activo         envelope.FlexBool `json:"activo"`
	DiaSemana      string            `json:"dia_semana,omitempty"`
	TotalProductos int               `json:"total_productos"`
	TotalVentas    decimal.Decimal   `json:"total_ventas"`
}

// MenuProducto links a product into a daily menu. PrecioEspecial, when set,
// is the only place a product's price is overridden per menu.
type MenuProducto struct {
	ProductoID     int64             `json:"producto_id" validate:"required"`
	Disponible     envelope.FlexBool `json:"disponible"`
	PrecioEspecial *decimal.Decimal  `json:"precio_especial"`
}

// PrecioEfectivo resolves the price this entry sells at: the special price
// when one is set, the product's base price otherwise. The base price itself
// is never modified.
func (mp MenuProducto) PrecioEfectivo(base decimal.Decimal) decimal.Decimal {
	if mp.PrecioEspecial != nil {
		return *mp.PrecioEspecial
	}
	return base
}
