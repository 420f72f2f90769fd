// Package session owns the authenticated-user state shared by the whole
// process: login/registro/logout, restore-on-start, role flags, and the
// persisted copy of the session. All readers treat the session as read-only;
// only this package's methods mutate it.
package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Datos is the persisted session: the three keys are written and cleared
// together, always.
type Datos struct {
	Token       string `json:"token"`
	Usuario     string `json:"user"`        // JSON-encoded model.Usuario
	Redireccion string `json:"redireccion"` // post-login redirect hint
}

// Vacia reports whether nothing usable is persisted.
func (d Datos) Vacia() bool { return d.Token == "" && d.Usuario == "" }

// Almacen persists the session across process restarts.
type Almacen interface {
	Guardar(d Datos) error
	Cargar() (Datos, error)
	Limpiar() error
}

// ArchivoAlmacen keeps the session in a local JSON file, the single-terminal
// default.
type ArchivoAlmacen struct {
	ruta string
}

func NuevoArchivoAlmacen(ruta string) *ArchivoAlmacen {
	if ruta == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		ruta = filepath.Join(dir, "alpunto", "sesion.json")
	}
	return &ArchivoAlmacen{ruta: ruta}
}

func (a *ArchivoAlmacen) Guardar(d Datos) error {
	if err := os.MkdirAll(filepath.Dir(a.ruta), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	// write-then-rename so a crash never leaves a torn session file
	tmp := a.ruta + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, a.ruta)
}

func (a *ArchivoAlmacen) Cargar() (Datos, error) {
	data, err := os.ReadFile(a.ruta)
	if errors.Is(err, fs.ErrNotExist) {
		return Datos{}, nil
	}
	if err != nil {
		return Datos{}, err
	}
	var d Datos
	if err := json.Unmarshal(data, &d); err != nil {
		// corrupt file: same as no session
		return Datos{}, nil
	}
	return d, nil
}

func (a *ArchivoAlmacen) Limpiar() error {
	err := os.Remove(a.ruta)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
