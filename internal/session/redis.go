package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	claveToken       = "sesion:token"
	claveUsuario     = "sesion:user"
	claveRedireccion = "sesion:redireccion"
)

// RedisAlmacen keeps the session in redis so that several terminals of the
// same locale share one login. The three keys move together: Guardar and
// Limpiar run as a single pipeline.
type RedisAlmacen struct {
	rdb     *redis.Client
	timeout time.Duration
}

// NuevoRedisAlmacen creates and validates a go-redis backed store.
func NuevoRedisAlmacen(redisURL string) (*RedisAlmacen, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisAlmacen{rdb: rdb, timeout: 5 * time.Second}, nil
}

func (r *RedisAlmacen) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func (r *RedisAlmacen) Guardar(d Datos) error {
	ctx, cancel := r.ctx()
	defer cancel()

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, claveToken, d.Token, 0)
	pipe.Set(ctx, claveUsuario, d.Usuario, 0)
	pipe.Set(ctx, claveRedireccion, d.Redireccion, 0)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisAlmacen) Cargar() (Datos, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	vals, err := r.rdb.MGet(ctx, claveToken, claveUsuario, claveRedireccion).Result()
	if err != nil {
		return Datos{}, err
	}
	leer := func(v any) string {
		s, _ := v.(string)
		return s
	}
	return Datos{
		Token:       leer(vals[0]),
		Usuario:     leer(vals[1]),
		Redireccion: leer(vals[2]),
	}, nil
}

func (r *RedisAlmacen) Limpiar() error {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.rdb.Del(ctx, claveToken, claveUsuario, claveRedireccion).Err()
}
