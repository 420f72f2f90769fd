package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/apierror"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/envelope"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/model"
	"github.com/Lovoh17/Al-Punto-Admin-sub000/internal/transport"
)

// Credenciales is the login payload.
type Credenciales struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registro is the sign-up payload.
type Registro struct {
	Nombre   string `json:"nombre" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Telefono string `json:"telefono,omitempty"`
}

// Sesion is the single source of truth for "who is logged in". It restores
// itself from the Almacen on construction, registers the 401 teardown with
// the transport, and serializes login/registro/logout so that overlapping
// calls cannot race on which response ends up persisted.
type Sesion struct {
	api     *transport.Client
	almacen Almacen
	logger  zerolog.Logger

	opMu sync.Mutex // serializes login / registro / logout

	st          sync.RWMutex
	usuario     *model.Usuario
	token       string
	redireccion string
}

// Nueva builds the session, restores any persisted state and wires itself
// into the transport (token source + 401 teardown).
func Nueva(api *transport.Client, almacen Almacen, logger zerolog.Logger) *Sesion {
	s := &Sesion{api: api, almacen: almacen, logger: logger}
	s.restaurar()
	api.SetTokenProvider(s)
	api.SetOnNoAutorizado(s.expirar)
	return s
}

// restaurar loads the persisted session. Both the token and a parseable user
// are required; anything partial is cleared and the session starts
// unauthenticated.
func (s *Sesion) restaurar() {
	d, err := s.almacen.Cargar()
	if err != nil {
		s.logger.Warn().Err(err).Msg("no se pudo leer la sesión persistida")
		return
	}
	if d.Token == "" || d.Usuario == "" {
		if !d.Vacia() {
			_ = s.almacen.Limpiar()
		}
		return
	}
	var u model.Usuario
	if err := json.Unmarshal([]byte(d.Usuario), &u); err != nil || model.Validar(&u) != nil {
		_ = s.almacen.Limpiar()
		return
	}

	s.st.Lock()
	s.usuario = &u
	s.token = d.Token
	s.redireccion = d.Redireccion
	s.st.Unlock()
}

// respuesta de /Usuarios/login y /Usuarios/registro
type respuestaAuth struct {
	Token   string          `json:"token"`
	Usuario json.RawMessage `json:"usuario"`
}

// Login authenticates against POST /Usuarios/login. The response must carry
// a success flag, a token and a user object; a 2xx missing any of them is an
// invalid response even though the transport call succeeded. State (memory
// and storage) changes only on success.
func (s *Sesion) Login(ctx context.Context, cred Credenciales) error {
	if err := model.Validar(&cred); err != nil {
		return fmt.Errorf("credenciales inválidas: %w", err)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	body, err := s.api.Post(ctx, "/Usuarios/login", cred)
	if err != nil {
		return err
	}
	return s.adoptar(body)
}

// Registrar signs a user up against POST /Usuarios/registro. When the
// response already carries a usable session (token + usuario), success
// implies auto-login; otherwise the account exists but the caller still has
// to log in.
func (s *Sesion) Registrar(ctx context.Context, reg Registro) error {
	if err := model.Validar(&reg); err != nil {
		return fmt.Errorf("datos de registro inválidos: %w", err)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	body, err := s.api.Post(ctx, "/Usuarios/registro", reg)
	if err != nil {
		return err
	}

	if err := exigirExito(body); err != nil {
		return err
	}
	auth, err := envelope.DecodificarObjeto[respuestaAuth](body)
	if err != nil || auth.Token == "" || len(auth.Usuario) == 0 {
		// registration accepted without a session: not an error
		return nil
	}
	return s.adoptar(body)
}

// adoptar validates an auth response and makes it the current session.
func (s *Sesion) adoptar(body []byte) error {
	if err := exigirExito(body); err != nil {
		return err
	}

	auth, err := envelope.DecodificarObjeto[respuestaAuth](body)
	if err != nil {
		return fmt.Errorf("%w: %v", apierror.ErrRespuestaIncompleta, err)
	}
	if auth.Token == "" || len(auth.Usuario) == 0 {
		return fmt.Errorf("%w: falta token o usuario", apierror.ErrRespuestaIncompleta)
	}

	var u model.Usuario
	if err := json.Unmarshal(auth.Usuario, &u); err != nil {
		return fmt.Errorf("%w: usuario ilegible: %v", apierror.ErrRespuestaIncompleta, err)
	}
	if err := model.Validar(&u); err != nil {
		return fmt.Errorf("%w: %v", apierror.ErrRespuestaIncompleta, err)
	}

	usuarioJSON, err := json.Marshal(u)
	if err != nil {
		return err
	}
	destino := rutaPorRol(u.Rol)
	if err := s.almacen.Guardar(Datos{
		Token:       auth.Token,
		Usuario:     string(usuarioJSON),
		Redireccion: destino,
	}); err != nil {
		return fmt.Errorf("no se pudo persistir la sesión: %w", err)
	}

	s.st.Lock()
	s.usuario = &u
	s.token = auth.Token
	s.redireccion = destino
	s.st.Unlock()

	s.logger.Info().Int64("usuario_id", u.ID).Str("rol", string(u.Rol)).Msg("sesión iniciada")
	return nil
}

// exigirExito rejects auth responses without an affirmative success flag.
func exigirExito(body []byte) error {
	var env struct {
		Success *envelope.FlexBool `json:"success"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", apierror.ErrRespuestaIncompleta, err)
	}
	if env.Success == nil || !env.Success.Bool() {
		return fmt.Errorf("%w: falta confirmación de éxito", apierror.ErrRespuestaIncompleta)
	}
	return nil
}

// Logout clears the persisted and in-memory session unconditionally; no
// server round-trip is needed for it to succeed.
func (s *Sesion) Logout() {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.almacen.Limpiar(); err != nil {
		s.logger.Warn().Err(err).Msg("no se pudo limpiar la sesión persistida")
	}
	s.st.Lock()
	s.usuario = nil
	s.token = ""
	s.redireccion = ""
	s.st.Unlock()
}

// expirar is the 401 teardown registered with the transport: persisted and
// in-memory session go away no matter which call triggered the 401.
func (s *Sesion) expirar() {
	if err := s.almacen.Limpiar(); err != nil {
		s.logger.Warn().Err(err).Msg("no se pudo limpiar la sesión persistida")
	}
	s.st.Lock()
	autenticado := s.usuario != nil
	s.usuario = nil
	s.token = ""
	s.redireccion = ""
	s.st.Unlock()

	if autenticado {
		s.logger.Warn().Msg("sesión expirada por respuesta 401")
	}
}

// ActualizarUsuario overwrites the persisted and in-memory user record,
// keeping the current token. Used after profile edits.
func (s *Sesion) ActualizarUsuario(u model.Usuario) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.st.RLock()
	token := s.token
	redireccion := s.redireccion
	s.st.RUnlock()
	if token == "" {
		return apierror.ErrSesionExpirada
	}

	usuarioJSON, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.almacen.Guardar(Datos{Token: token, Usuario: string(usuarioJSON), Redireccion: redireccion}); err != nil {
		return err
	}

	s.st.Lock()
	s.usuario = &u
	s.st.Unlock()
	return nil
}

// Token implements transport.TokenProvider.
func (s *Sesion) Token() string {
	s.st.RLock()
	defer s.st.RUnlock()
	return s.token
}

// Usuario returns a copy of the current user, or nil when unauthenticated.
func (s *Sesion) Usuario() *model.Usuario {
	s.st.RLock()
	defer s.st.RUnlock()
	if s.usuario == nil {
		return nil
	}
	u := *s.usuario
	return &u
}

// Redireccion returns the post-login redirect hint.
func (s *Sesion) Redireccion() string {
	s.st.RLock()
	defer s.st.RUnlock()
	return s.redireccion
}

func (s *Sesion) Autenticado() bool { return s.Usuario() != nil }

// Rol returns the current role, or "" when unauthenticated.
func (s *Sesion) Rol() model.Rol {
	if u := s.Usuario(); u != nil {
		return u.Rol
	}
	return ""
}

// Derived role flags: pure reads, never stored.
func (s *Sesion) EsAdministrador() bool { return s.Rol() == model.RolAdministrador }
func (s *Sesion) EsEmpleado() bool      { return s.Rol() == model.RolEmpleado }
func (s *Sesion) EsMesero() bool        { return s.Rol() == model.RolMesero }
func (s *Sesion) EsCocina() bool        { return s.Rol() == model.RolCocina }
func (s *Sesion) EsCliente() bool       { return s.Rol() == model.RolCliente }

// TokenExpirado inspects the bearer token's exp claim without verifying the
// signature (the backend owns verification). A token without exp never
// expires client-side.
func (s *Sesion) TokenExpirado() bool {
	tok := s.Token()
	if tok == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// rutaPorRol is the post-login landing route per role.
func rutaPorRol(rol model.Rol) string {
	switch rol {
	case model.RolAdministrador:
		return "/dashboard"
	case model.RolCocina:
		return "/cocina"
	case model.RolMesero, model.RolEmpleado:
		return "/pedidos"
	default:
		return "/menu"
	}
}
