package postgres

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	ips []net.IP
	err error
}

func (f fakeLookup) LookupIP(context.Context, string, string) ([]net.IP, error) {
	return f.ips, f.err
}

func TestFirstIPv4(t *testing.T) {
	ctx := context.Background()

	ip, err := firstIPv4(ctx, fakeLookup{}, "10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", ip)

	_, err = firstIPv4(ctx, fakeLookup{}, "::1")
	assert.ErrorIs(t, err, errNoIPv4)

	ip, err = firstIPv4(ctx, fakeLookup{ips: []net.IP{net.ParseIP("2001:db8::1"), net.ParseIP("192.168.1.20")}}, "db.local")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20", ip)

	_, err = firstIPv4(ctx, fakeLookup{ips: []net.IP{net.ParseIP("2001:db8::1")}}, "db.local")
	assert.ErrorIs(t, err, errNoIPv4)

	boom := errors.New("dns caído")
	_, err = firstIPv4(ctx, fakeLookup{err: boom}, "db.local")
	assert.ErrorIs(t, err, boom)
}

func TestApplyPoolLimits(t *testing.T) {
	pc := &pgxpool.Config{}
	applyPoolLimits(pc, 0)
	assert.EqualValues(t, defaultMaxConns, pc.MaxConns)
	assert.EqualValues(t, minConns, pc.MinConns)

	applyPoolLimits(pc, 1)
	assert.EqualValues(t, 1, pc.MaxConns)
	assert.EqualValues(t, 1, pc.MinConns)
}
