package peers

import "net/http"

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithBaseURLs sets the peer base URLs. Empty values keep the defaults.
func WithBaseURLs(heroes, villains, locations string) Option {
	return func(c *Client) {
		if heroes != "" {
			c.heroes = heroes
		}
		if villains != "" {
			c.villains = villains
		}
		if locations != "" {
			c.locations = locations
		}
	}
}
