package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/worker"
)

// observar keeps a live dashboard: the refresher reloads every collection on
// an interval and the command prints the aggregates until interrupted.
func (a *app) comandoObservar() *cobra.Command {
	var segundos int
	cmd := &cobra.Command{
		Use:   "observar",
		Short: "Refresca y muestra estadísticas en vivo",
		RunE: func(c *cobra.Command, _ []string) error {
			intervalo := time.Duration(segundos) * time.Second
			if intervalo <= 0 {
				intervalo = a.cfg.RefreshInterval()
			}
			if intervalo <= 0 {
				intervalo = 30 * time.Second
			}

			ctx := c.Context()
			r := worker.NuevoRefrescador(intervalo)
			r.Registrar("categorias", a.categoria.Cargar)
			r.Registrar("productos", a.producto.Cargar)
			r.Registrar("menus", a.menu.Cargar)
			r.Registrar("pedidos", a.pedido.Cargar)
			r.Iniciar(ctx)

			// first paint without waiting for the first tick
			_ = a.pedido.Cargar(ctx)
			_ = a.producto.Cargar(ctx)

			ticker := time.NewTicker(intervalo)
			defer ticker.Stop()
			for {
				ep := a.pedido.Estadisticas()
				epr := a.producto.Estadisticas()
				fmt.Printf("[%s] pedidos activos: %d | ventas: %s | productos disponibles: %d/%d\n",
					time.Now().Format("15:04:05"), ep.Activos,
					ep.VentasTotales.StringFixed(2), epr.Disponibles, epr.Total)

				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
			}
		},
	}
	cmd.Flags().IntVar(&segundos, "intervalo", 0, "segundos entre recargas")
	return cmd
}
