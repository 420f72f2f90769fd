package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/model"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/store"
)

func (a *app) comandoCategorias() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorias",
		Short: "Administra las categorías de productos",
	}

	var buscar, estado string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista categorías",
		RunE: func(c *cobra.Command, _ []string) error {
			f, err := filtroEstado(estado)
			if err != nil {
				return err
			}
			if err := a.categoria.Cargar(c.Context()); err != nil {
				return err
			}
			w := tabla()
			fmt.Fprintln(w, "ID\tNOMBRE\tACTIVA\tPRODUCTOS")
			for _, cat := range a.categoria.Filtrar(buscar, f) {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", cat.ID, cat.Nombre, marcaActivo(cat.Activo.Bool()), cat.TotalProductos)
			}
			w.Flush()
			e := a.categoria.Estadisticas()
			fmt.Printf("%d categorías, %d activas, %d con productos\n", e.Total, e.Activas, e.ConProductos)
			return nil
		},
	}
	list.Flags().StringVar(&buscar, "buscar", "", "texto a buscar")
	list.Flags().StringVar(&estado, "estado", "todos", "todos|activos|inactivos")

	var nombre, descripcion string
	crear := &cobra.Command{
		Use:   "crear",
		Short: "Crea una categoría",
		RunE: func(c *cobra.Command, _ []string) error {
			res := a.categoria.Crear(c.Context(), store.CrearCategoria{
				Nombre: nombre, Descripcion: descripcion, Activo: true,
			})
			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}
			color.Green("Categoría creada")
			return nil
		},
	}
	crear.Flags().StringVar(&nombre, "nombre", "", "nombre de la categoría")
	crear.Flags().StringVar(&descripcion, "descripcion", "", "descripción")
	_ = crear.MarkFlagRequired("nombre")

	eliminar := &cobra.Command{
		Use:   "eliminar <id>",
		Short: "Elimina una categoría sin productos",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id inválido: %q", args[0])
			}
			// the local copy feeds the pre-network delete guard
			_ = a.categoria.Cargar(c.Context())
			res := a.categoria.Eliminar(c.Context(), id)
			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}
			color.Yellow("Categoría eliminada")
			return nil
		},
	}

	cmd.AddCommand(list, crear, eliminar)
	return cmd
}

func (a *app) comandoProductos() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "productos",
		Short: "Consulta el catálogo de productos",
	}

	var buscar, estado string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista productos",
		RunE: func(c *cobra.Command, _ []string) error {
			f, err := filtroEstado(estado)
			if err != nil {
				return err
			}
			if err := a.producto.Cargar(c.Context()); err != nil {
				return err
			}
			w := tabla()
			fmt.Fprintln(w, "ID\tNOMBRE\tPRECIO\tDISPONIBLE\tDESTACADO")
			for _, p := range a.producto.Filtrar(buscar, f) {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					p.ID, p.Nombre, p.Precio.StringFixed(2),
					marcaActivo(p.Disponible.Bool()), marcaActivo(p.Destacado.Bool()))
			}
			w.Flush()
			e := a.producto.Estadisticas()
			fmt.Printf("%d productos, %d disponibles, %d destacados\n", e.Total, e.Disponibles, e.Destacados)
			return nil
		},
	}
	list.Flags().StringVar(&buscar, "buscar", "", "texto a buscar")
	list.Flags().StringVar(&estado, "estado", "todos", "todos|activos|inactivos")

	cmd.AddCommand(list)
	return cmd
}

func (a *app) comandoMenus() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menus",
		Short: "Consulta los menús del día",
	}

	var buscar string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista menús",
		RunE: func(c *cobra.Command, _ []string) error {
			if err := a.menu.Cargar(c.Context()); err != nil {
				return err
			}
			w := tabla()
			fmt.Fprintln(w, "ID\tNOMBRE\tFECHA\tACTIVO\tPRODUCTOS\tVENTAS")
			for _, m := range a.menu.Filtrar(buscar, store.FiltroTodos) {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
					m.ID, m.Nombre, m.Fecha, marcaActivo(m.Activo.Bool()),
					m.TotalProductos, m.TotalVentas.StringFixed(2))
			}
			w.Flush()
			return nil
		},
	}
	list.Flags().StringVar(&buscar, "buscar", "", "texto a buscar")

	productos := &cobra.Command{
		Use:   "productos <menu-id>",
		Short: "Lista los productos asignados a un menú",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id inválido: %q", args[0])
			}
			entradas, err := a.menu.ProductosDelMenu(c.Context(), id)
			if err != nil {
				return err
			}
			w := tabla()
			fmt.Fprintln(w, "PRODUCTO\tDISPONIBLE\tPRECIO ESPECIAL")
			for _, e := range entradas {
				precio := "-"
				if e.PrecioEspecial != nil {
					precio = e.PrecioEspecial.StringFixed(2)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", e.ProductoID, marcaActivo(e.Disponible.Bool()), precio)
			}
			w.Flush()
			return nil
		},
	}

	cmd.AddCommand(list, productos)
	return cmd
}

func (a *app) comandoUsuarios() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usuarios",
		Short: "Administra los usuarios del sistema",
	}

	var buscar, estado string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista usuarios",
		RunE: func(c *cobra.Command, _ []string) error {
			f, err := filtroEstado(estado)
			if err != nil {
				return err
			}
			if err := a.usuario.Cargar(c.Context()); err != nil {
				return err
			}
			w := tabla()
			fmt.Fprintln(w, "ID\tNOMBRE\tEMAIL\tROL\tACTIVO")
			for _, u := range a.usuario.Filtrar(buscar, f) {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Nombre, u.Email, u.Rol, marcaActivo(u.Activo.Bool()))
			}
			w.Flush()
			return nil
		},
	}
	list.Flags().StringVar(&buscar, "buscar", "", "texto a buscar")
	list.Flags().StringVar(&estado, "estado", "todos", "todos|activos|inactivos")

	cmd.AddCommand(list)
	return cmd
}

func (a *app) comandoPerfil() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perfil",
		Short: "Perfil y pedidos del usuario autenticado",
	}

	ver := &cobra.Command{
		Use:   "ver",
		Short: "Muestra el perfil actual",
		RunE: func(c *cobra.Command, _ []string) error {
			if err := a.cliente.CargarPerfil(c.Context()); err != nil {
				return err
			}
			u := a.cliente.Perfil()
			fmt.Printf("%s <%s>\nrol: %s\nteléfono: %s\nactivo: %s\n",
				u.Nombre, u.Email, u.Rol, u.Telefono, marcaActivo(u.Activo.Bool()))
			return nil
		},
	}

	var nombre, telefono string
	editar := &cobra.Command{
		Use:   "editar",
		Short: "Edita nombre o teléfono del perfil",
		RunE: func(c *cobra.Command, _ []string) error {
			var req store.ActualizarPerfil
			if nombre != "" {
				req.Nombre = &nombre
			}
			if telefono != "" {
				req.Telefono = &telefono
			}
			res := a.cliente.ActualizarPerfil(c.Context(), req)
			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}
			color.Green("Perfil actualizado")
			return nil
		},
	}
	editar.Flags().StringVar(&nombre, "nombre", "", "nuevo nombre")
	editar.Flags().StringVar(&telefono, "telefono", "", "nuevo teléfono")

	pedidos := &cobra.Command{
		Use:   "pedidos",
		Short: "Lista los pedidos propios",
		RunE: func(c *cobra.Command, _ []string) error {
			if err := a.cliente.CargarPedidos(c.Context()); err != nil {
				return err
			}
			w := tabla()
			fmt.Fprintln(w, "ID\tNÚMERO\tMESA\tESTADO\tTOTAL")
			for _, p := range a.cliente.Pedidos() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					p.ID, p.NumeroPedido, p.NumeroMesa, p.Estado, p.Total.StringFixed(2))
			}
			w.Flush()
			if activo, ok := a.cliente.PedidoActivo(); ok {
				fmt.Printf("pedido en curso: %s (%s)\n", activo.NumeroPedido, activo.Estado)
			}
			return nil
		},
	}

	cmd.AddCommand(ver, editar, pedidos)
	return cmd
}

func (a *app) comandoPedidos() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pedidos",
		Short: "Consulta y gestiona pedidos",
	}

	var buscar, estado string
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista pedidos",
		RunE: func(c *cobra.Command, _ []string) error {
			if estado != "" && !model.EstadoPedido(estado).Valido() {
				return fmt.Errorf("estado desconocido: %q", estado)
			}
			if err := a.pedido.Cargar(c.Context()); err != nil {
				return err
			}
			w := tabla()
			fmt.Fprintln(w, "ID\tNÚMERO\tCLIENTE\tMESA\tESTADO\tTOTAL")
			for _, p := range a.pedido.Filtrar(buscar, model.EstadoPedido(estado)) {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					p.ID, p.NumeroPedido, p.ClienteNombre, p.NumeroMesa, p.Estado, p.Total.StringFixed(2))
			}
			w.Flush()
			return nil
		},
	}
	list.Flags().StringVar(&buscar, "buscar", "", "texto a buscar")
	list.Flags().StringVar(&estado, "estado", "", "pendiente|en_preparacion|listo|entregado|cancelado")

	cancelar := &cobra.Command{
		Use:   "cancelar <id>",
		Short: "Cancela un pedido no terminado",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id inválido: %q", args[0])
			}
			_ = a.pedido.Cargar(c.Context())
			res := a.pedido.Cancelar(c.Context(), id)
			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}
			color.Yellow("Pedido %d cancelado", id)
			return nil
		},
	}

	avanzar := &cobra.Command{
		Use:   "avanzar <id>",
		Short: "Avanza un pedido al siguiente estado",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id inválido: %q", args[0])
			}
			if err := a.pedido.Cargar(c.Context()); err != nil {
				return err
			}
			p, ok := a.pedido.Pedido(id)
			if !ok {
				return fmt.Errorf("pedido %d no encontrado", id)
			}
			siguiente, ok := p.Estado.Siguiente()
			if !ok {
				return fmt.Errorf("%s", store.MensajeTransicionInvalida)
			}
			res := a.pedido.CambiarEstado(c.Context(), id, siguiente)
			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}
			color.Green("Pedido %d → %s", id, siguiente)
			return nil
		},
	}

	estadoCmd := &cobra.Command{
		Use:   "estado <id> <estado>",
		Short: "Mueve un pedido a un estado concreto",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id inválido: %q", args[0])
			}
			destino := model.EstadoPedido(args[1])
			if !destino.Valido() {
				return fmt.Errorf("estado desconocido: %q", args[1])
			}
			_ = a.pedido.Cargar(c.Context())
			res := a.pedido.CambiarEstado(c.Context(), id, destino)
			if !res.Success {
				return fmt.Errorf("%s", res.Error)
			}
			color.Green("Pedido %d → %s", id, destino)
			return nil
		},
	}

	var remoto bool
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Muestra estadísticas de pedidos",
		RunE: func(c *cobra.Command, _ []string) error {
			if remoto {
				r, err := a.pedido.EstadisticasRemotas(c.Context())
				if err != nil {
					return err
				}
				fmt.Printf("pedidos: %d\npendientes: %d\nen preparación: %d\nlistos: %d\nventas hoy: %s\nventas totales: %s\n",
					r.TotalPedidos, r.Pendientes, r.EnPreparacion, r.Listos,
					r.VentasHoy.StringFixed(2), r.VentasTotales.StringFixed(2))
				return nil
			}
			if err := a.pedido.Cargar(c.Context()); err != nil {
				return err
			}
			e := a.pedido.Estadisticas()
			fmt.Printf("pedidos: %d (activos %d)\n", e.Total, e.Activos)
			for _, estado := range []model.EstadoPedido{
				model.EstadoPendiente, model.EstadoEnPreparacion, model.EstadoListo,
				model.EstadoEntregado, model.EstadoCancelado,
			} {
				fmt.Printf("  %s: %d\n", estado, e.PorEstado[estado])
			}
			fmt.Printf("ventas: %s (ticket promedio %s)\n",
				e.VentasTotales.StringFixed(2), e.TicketPromedio.StringFixed(2))
			return nil
		},
	}
	stats.Flags().BoolVar(&remoto, "remoto", false, "usa las estadísticas calculadas por el backend")

	cmd.AddCommand(list, cancelar, avanzar, estadoCmd, stats)
	return cmd
}
