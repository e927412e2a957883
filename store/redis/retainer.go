// Package redis provides go-redis-backed implementations of
// contract.Retainer and contract.Collector, grounded on the teacher's
// service/cache/redis.Client wrapper: a thin type around
// *redis.Client with context-first methods that translate redis.Nil
// into a package sentinel error.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/c3pb/rabbitmq-mqtt/contract"
	"github.com/c3pb/rabbitmq-mqtt/topicmap"
)

// Retainer is a per-vhost retained-message store backed by Redis.
// Each retained message is stored as a JSON value under a key scoped
// by vhost and topic; SCAN is used at Fetch time to find every
// concrete retained topic a subscription filter (which may carry
// wildcards) matches.
type Retainer struct {
	client *goredis.Client
}

// NewRetainer returns a Retainer backed by client.
func NewRetainer(client *goredis.Client) *Retainer {
	return &Retainer{client: client}
}

type retainedRecord struct {
	QoS     contract.QoS `json:"qos"`
	Payload []byte       `json:"payload"`
}

func retainKey(vhost, topic string) string {
	return fmt.Sprintf("mqtt:retained:%s:%s", vhost, topic)
}

// Retain stores msg as the retained message for topic, replacing any
// previous one.
func (r *Retainer) Retain(ctx context.Context, vhost string, topic []byte, msg contract.RetainedMessage) error {
	encoded, err := json.Marshal(retainedRecord{QoS: msg.QoS, Payload: msg.Payload})

	if err != nil {
		return fmt.Errorf("encode retained message: %w", err)
	}

	return r.client.Set(ctx, retainKey(vhost, string(topic)), encoded, 0).Err()
}

// Clear removes the retained message for topic, if any.
func (r *Retainer) Clear(ctx context.Context, vhost string, topic []byte) error {
	return r.client.Del(ctx, retainKey(vhost, string(topic))).Err()
}

// Fetch returns the retained messages matching the topic filter,
// scanning every retained key for vhost and matching each one's topic
// suffix against filter using MQTT wildcard rules.
func (r *Retainer) Fetch(ctx context.Context, vhost string, filter []byte) ([]contract.RetainedMessage, error) {
	prefix := fmt.Sprintf("mqtt:retained:%s:", vhost)
	pattern := prefix + "*"

	var out []contract.RetainedMessage
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()

	for iter.Next(ctx) {
		key := iter.Val()
		topic := key[len(prefix):]

		if !topicmap.Match(string(filter), topic) {
			continue
		}

		raw, err := r.client.Get(ctx, key).Result()

		if err != nil {
			continue
		}

		var record retainedRecord

		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			continue
		}

		out = append(out, contract.RetainedMessage{QoS: record.QoS, Payload: record.Payload})
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan retained keys: %w", err)
	}

	return out, nil
}

var _ contract.Retainer = (*Retainer)(nil)
