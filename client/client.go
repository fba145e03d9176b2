// Package client fetches ActivityPub documents from remote instances.
// Fetched actor documents are cached in-process and, when a memcached
// server is configured, shared across processes.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/patrickmn/go-cache"
)

const (
	defaultTimeout = 10 * time.Second
	contentType    = "application/activity+json"
)

// ActorDocument is the wire form of a dereferenced actor.
type ActorDocument struct {
	Context           any    `json:"@context,omitempty"`
	ID                string `json:"id"`
	Type              string `json:"type"`
	PreferredUsername string `json:"preferredUsername"`
	Inbox             string `json:"inbox"`
	Outbox            string `json:"outbox,omitempty"`
	Followers         string `json:"followers,omitempty"`
	Endpoints         struct {
		SharedInbox string `json:"sharedInbox,omitempty"`
	} `json:"endpoints"`
	PublicKey struct {
		ID           string `json:"id"`
		Owner        string `json:"owner"`
		PublicKeyPem string `json:"publicKeyPem"`
	} `json:"publicKey"`
}

type Client struct {
	client    *http.Client
	cache     *cache.Cache
	mc        *memcache.Client
	userAgent string
}

// Option configures the client.
type Option func(*Client)

// WithMemcached adds a shared second-level document cache.
func WithMemcached(mc *memcache.Client) Option {
	return func(c *Client) {
		c.mc = mc
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

func New(userAgent string, options ...Option) *Client {
	c := &Client{
		client:    &http.Client{Timeout: defaultTimeout},
		cache:     cache.New(10*time.Minute, 15*time.Minute),
		userAgent: userAgent,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// GetActor dereferences an actor identity URL.
func (c *Client) GetActor(ctx context.Context, id string) (ActorDocument, error) {

	cacheKey := "actor:" + id
	if x, found := c.cache.Get(cacheKey); found {
		return x.(ActorDocument), nil
	}

	if c.mc != nil {
		if item, err := c.mc.Get(cacheKey); err == nil {
			var doc ActorDocument
			if err := json.Unmarshal(item.Value, &doc); err == nil {
				c.cache.Set(cacheKey, doc, cache.DefaultExpiration)
				return doc, nil
			}
		}
	}

	var doc ActorDocument
	if err := c.getJSON(ctx, id, &doc); err != nil {
		return ActorDocument{}, err
	}

	if doc.ID == "" || doc.Inbox == "" {
		return ActorDocument{}, fmt.Errorf("actor document %s missing required fields", id)
	}

	c.cache.Set(cacheKey, doc, cache.DefaultExpiration)
	if c.mc != nil {
		if serialized, err := json.Marshal(doc); err == nil {
			c.mc.Set(&memcache.Item{Key: cacheKey, Value: serialized, Expiration: 600})
		}
	}

	return doc, nil
}

// Invalidate drops an actor from both cache tiers, forcing the next
// GetActor to refetch.
func (c *Client) Invalidate(id string) {
	cacheKey := "actor:" + id
	c.cache.Delete(cacheKey)
	if c.mc != nil {
		c.mc.Delete(cacheKey)
	}
}

func (c *Client) getJSON(ctx context.Context, url string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(result)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
