// Package memory provides go-cache-backed implementations of
// contract.Retainer and contract.Collector for single-node
// deployments, adapted from the teacher's cache.Memory wrapper around
// patrickmn/go-cache.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/c3pb/rabbitmq-mqtt/contract"
	"github.com/c3pb/rabbitmq-mqtt/topicmap"
)

// Retainer is an in-process, non-expiring retained-message store keyed
// by vhost and topic. It is appropriate for a single bridge node; a
// clustered deployment needs store/redis instead.
type Retainer struct {
	mux   sync.Mutex
	store *cache.Cache
}

// NewRetainer returns a Retainer. Retained messages never expire on
// their own; they live until Cleared or overwritten, matching MQTT
// retained-message semantics.
func NewRetainer() *Retainer {
	return &Retainer{store: cache.New(cache.NoExpiration, time.Hour)}
}

func retainKey(vhost, topic string) string {
	return fmt.Sprintf("%s\x00%s", vhost, topic)
}

// Retain stores msg as the retained message for topic, replacing any
// previous one.
func (r *Retainer) Retain(_ context.Context, vhost string, topic []byte, msg contract.RetainedMessage) error {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.store.Set(retainKey(vhost, string(topic)), msg, cache.NoExpiration)

	return nil
}

// Clear removes the retained message for topic, if any.
func (r *Retainer) Clear(_ context.Context, vhost string, topic []byte) error {
	r.mux.Lock()
	defer r.mux.Unlock()

	r.store.Delete(retainKey(vhost, string(topic)))

	return nil
}

// Fetch returns the retained messages matching the topic filter,
// scanning every retained entry for vhost and matching each one's
// topic against filter using MQTT wildcard rules.
func (r *Retainer) Fetch(_ context.Context, vhost string, filter []byte) ([]contract.RetainedMessage, error) {
	r.mux.Lock()
	defer r.mux.Unlock()

	prefix := vhost + "\x00"
	var out []contract.RetainedMessage

	for key, item := range r.store.Items() {
		if len(key) <= len(prefix) || key[:len(prefix)] != prefix {
			continue
		}

		topic := key[len(prefix):]

		if !topicmap.Match(string(filter), topic) {
			continue
		}

		msg, ok := item.Object.(contract.RetainedMessage)

		if !ok {
			continue
		}

		out = append(out, msg)
	}

	return out, nil
}

var _ contract.Retainer = (*Retainer)(nil)

// Collector is an in-process client-id registry, appropriate for a
// single bridge node.
type Collector struct {
	mux   sync.Mutex
	store *cache.Cache
}

// NewCollector returns a Collector.
func NewCollector() *Collector {
	return &Collector{store: cache.New(cache.NoExpiration, time.Hour)}
}

// Register associates clientID with this node.
func (c *Collector) Register(_ context.Context, clientID []byte) error {
	c.mux.Lock()
	defer c.mux.Unlock()

	c.store.Set(string(clientID), struct{}{}, cache.NoExpiration)

	return nil
}

// Unregister removes the client-id registration. It is idempotent:
// deleting an absent key is not an error.
func (c *Collector) Unregister(_ context.Context, clientID []byte) error {
	c.mux.Lock()
	defer c.mux.Unlock()

	c.store.Delete(string(clientID))

	return nil
}

var _ contract.Collector = (*Collector)(nil)
