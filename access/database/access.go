// Package database implements contract.AccessControl against a
// Postgres permissions schema modeled on RabbitMQ's own
// auth-backend-postgresql plugin: one row per (vhost, user) pair
// carrying read/write regular expressions matched against the AMQP
// routing key, adapted from the teacher's framework/auth/database
// provider's query-by-column shape.
package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/c3pb/rabbitmq-mqtt/contract"
)

// AccessControl is a Postgres-backed contract.AccessControl.
type AccessControl struct {
	db contract.Database
}

// New returns an AccessControl backed by db.
func New(db contract.Database) *AccessControl {
	return &AccessControl{db: db}
}

type vhostRow struct {
	Name string `db:"name"`
}

// VhostExists reports whether vhost is a known AMQP virtual host.
func (a *AccessControl) VhostExists(ctx context.Context, vhost string) (bool, error) {
	const q = `select name from vhosts where name = $1 limit 1`

	var row vhostRow
	err := a.db.QueryOne(ctx, &row, q, vhost)

	if err == nil {
		return true, nil
	}

	if errors.Is(err, contract.ErrDatabaseNoRows) {
		return false, nil
	}

	return false, err
}

type loopbackRow struct {
	LoopbackOnly bool `db:"loopback_only"`
}

// CheckLoopback reports whether user is allowed to connect from
// peerHost. Users without a loopback_users row are unrestricted.
func (a *AccessControl) CheckLoopback(ctx context.Context, user string, peerHost string) (bool, error) {
	const q = `select loopback_only from loopback_users where username = $1 limit 1`

	var row loopbackRow
	err := a.db.QueryOne(ctx, &row, q, user)

	if errors.Is(err, contract.ErrDatabaseNoRows) {
		return true, nil
	}

	if err != nil {
		return false, err
	}

	if !row.LoopbackOnly {
		return true, nil
	}

	return peerHost == "127.0.0.1" || peerHost == "::1" || peerHost == "localhost", nil
}

type permissionRow struct {
	Read  string `db:"read"`
	Write string `db:"write"`
}

func (a *AccessControl) permission(ctx context.Context, user, vhost string) (permissionRow, error) {
	const q = `select read, write from user_permissions where username = $1 and vhost = $2 limit 1`

	var row permissionRow
	err := a.db.QueryOne(ctx, &row, q, user, vhost)

	if errors.Is(err, contract.ErrDatabaseNoRows) {
		return permissionRow{}, fmt.Errorf("%w: no permissions for %s on %s", contract.ErrAccessRefused, user, vhost)
	}

	if err != nil {
		return permissionRow{}, err
	}

	return row, nil
}

// CheckTopicRead verifies user may subscribe/read routingKey on vhost.
func (a *AccessControl) CheckTopicRead(ctx context.Context, user, vhost, exchange, routingKey string) error {
	row, err := a.permission(ctx, user, vhost)

	if err != nil {
		return err
	}

	return matchPattern(row.Read, routingKey)
}

// CheckTopicWrite verifies user may publish routingKey on vhost.
func (a *AccessControl) CheckTopicWrite(ctx context.Context, user, vhost, exchange, routingKey string) error {
	row, err := a.permission(ctx, user, vhost)

	if err != nil {
		return err
	}

	return matchPattern(row.Write, routingKey)
}

func matchPattern(pattern, routingKey string) error {
	if pattern == "" {
		return fmt.Errorf("%w: %s", contract.ErrUnauthorized, routingKey)
	}

	matched, err := regexp.MatchString(pattern, routingKey)

	if err != nil {
		return fmt.Errorf("invalid permission pattern %q: %w", pattern, err)
	}

	if !matched {
		return fmt.Errorf("%w: %s does not match %s", contract.ErrUnauthorized, routingKey, pattern)
	}

	return nil
}

var _ contract.AccessControl = (*AccessControl)(nil)
