// Package peers fetches random fighters and locations from the sibling
// services. Fan-out calls run concurrently under one errgroup: the first
// failure cancels the remaining fetches and fails the whole aggregate, so
// no partial composition ever leaves this package.
package peers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/metrics"
)

// Peer base URL defaults match the deployment's service-discovery names.
const (
	defaultHeroesBase    = "http://heroes:8000"
	defaultVillainsBase  = "http://villains:8000"
	defaultLocationsBase = "http://locations:8000"
	defaultTimeout       = 10 * time.Second

	// Error bodies from peers are small JSON documents; cap reads anyway.
	maxErrorBody = 64 << 10
)

// Client calls the heroes, villains and locations services.
type Client struct {
	http      *http.Client
	heroes    string
	villains  string
	locations string
}

// New creates a peer client. Without options it targets the well-known
// service hostnames with a 10 second request timeout.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: defaultTimeout},
		heroes:    defaultHeroesBase,
		villains:  defaultVillainsBase,
		locations: defaultLocationsBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RandomHero fetches a random hero.
func (c *Client) RandomHero(ctx context.Context) (model.Record, error) {
	return c.getRecord(ctx, "heroes", c.heroes+"/api/heroes/random_hero")
}

// RandomVillain fetches a random villain.
func (c *Client) RandomVillain(ctx context.Context) (model.Record, error) {
	return c.getRecord(ctx, "villains", c.villains+"/api/villains/random_villain")
}

// RandomLocation fetches a random location.
func (c *Client) RandomLocation(ctx context.Context) (model.Record, error) {
	return c.getRecord(ctx, "locations", c.locations+"/api/locations/random_location")
}

// RandomFighters fetches a random hero and villain concurrently. On any
// failure both results are discarded and the first error is returned.
func (c *Client) RandomFighters(ctx context.Context) (model.Record, model.Record, error) {
	defer observeFanout("random_fighters")()

	var hero, villain model.Record
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hero, err = c.RandomHero(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		villain, err = c.RandomVillain(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return hero, villain, nil
}

// FightMaterial fetches a random hero, villain and location concurrently.
func (c *Client) FightMaterial(ctx context.Context) (hero, villain, location model.Record, err error) {
	defer observeFanout("fight_material")()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hero, err = c.RandomHero(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		villain, err = c.RandomVillain(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		location, err = c.RandomLocation(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return hero, villain, location, nil
}

func (c *Client) getRecord(ctx context.Context, peer, url string) (model.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", peer, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordPeerError(peer)
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RecordPeerError(peer)
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Peer: peer, StatusCode: resp.StatusCode, Body: body}
	}

	var rec model.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		metrics.RecordPeerError(peer)
		return nil, fmt.Errorf("decode %s response: %w", peer, err)
	}
	return rec, nil
}

func observeFanout(op string) func() {
	start := time.Now()
	return func() {
		metrics.ObserveFanoutDuration(op, time.Since(start))
	}
}
