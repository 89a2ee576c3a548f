package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/flight"
	"github.com/redis/go-redis/v9"
)

const flightsKey = "cache:flights"

type FlightCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(cfg internal.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

func NewFlightCache(client *redis.Client, ttl time.Duration) *FlightCache {
	return &FlightCache{client: client, ttl: ttl}
}

func (c *FlightCache) GetFlights(ctx context.Context) ([]*flight.Flight, error) {
	data, err := c.client.Get(ctx, flightsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []*flight.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *FlightCache) SetFlights(ctx context.Context, flights []*flight.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey, payload, c.ttl).Err()
}

func (c *FlightCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey).Err()
}
