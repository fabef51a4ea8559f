package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tu-usuario/acceso-residencial/pkg/config"
)

// Client envuelve el cliente go-redis. Se usa solo para el rate limiting del
// endpoint público de intake.
type Client struct {
	*redis.Client
}

// New crea el cliente desde la configuración.
// Devuelve nil si la URL está vacía (Redis no configurado, rate limiter apagado).
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{Client: client}, nil
}

// Ventana fija atómica: INCR y EXPIRE en un solo script para que la clave nunca
// quede sin TTL si el proceso muere entre los dos comandos.
var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// Hit incrementa el contador de la clave y devuelve su valor dentro de la
// ventana actual. La primera petición de la ventana fija el TTL.
func (c *Client) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	return hitScript.Run(ctx, c.Client, []string{key}, int(window.Seconds())).Int64()
}

// Close cierra la conexión.
func (c *Client) Close() error {
	return c.Client.Close()
}
