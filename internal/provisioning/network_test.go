package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	calls []string
	err   error
}

func (r *stubResolver) LookupDefault(_ context.Context) (network.Handle, error) {
	r.calls = append(r.calls, "default")
	return network.Handle{ID: "vpc-default", Default: true}, r.err
}

func (r *stubResolver) Lookup(_ context.Context, id string) (network.Handle, error) {
	r.calls = append(r.calls, "lookup:"+id)
	return network.Handle{ID: id}, r.err
}

func (r *stubResolver) Create(_ context.Context, name string) (network.Handle, error) {
	r.calls = append(r.calls, "create:"+name)
	return network.Handle{ID: "vpc-new", Name: name}, r.err
}

func newNetworkContext(cfg *blueprint.Config, hint string, r network.Resolver) *Context {
	values := map[string]string{}
	if hint != "" {
		values[network.ContextKey] = hint
	}
	ctx := NewContext(context.Background(), blueprint.NewScope("test", values), cfg, Defaults{}, NewLogObserver(logr.Discard()))
	ctx.Resolver = r
	return ctx
}

func TestNetworkPhase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ref       *network.Handle
		hint      string
		wantID    string
		wantCalls []string
	}{
		{"pre-resolved reference", &network.Handle{ID: "vpc-ref"}, "default", "vpc-ref", nil},
		{"default hint", nil, "default", "vpc-default", []string{"default"}},
		{"id hint", nil, "vpc-0abc", "vpc-0abc", []string{"lookup:vpc-0abc"}},
		{"create when no hint", nil, "", "vpc-new", []string{"create:demo-vpc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := &stubResolver{}
			ctx := newNetworkContext(&blueprint.Config{ID: "demo", Network: tt.ref}, tt.hint, r)

			require.NoError(t, NewNetworkPhase().Provision(ctx))
			assert.Equal(t, tt.wantID, ctx.State.Network.ID)
			assert.Equal(t, tt.wantCalls, r.calls)
		})
	}
}

func TestNetworkPhase_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no resolver", func(t *testing.T) {
		t.Parallel()
		ctx := newNetworkContext(&blueprint.Config{ID: "demo"}, "", nil)
		err := NewNetworkPhase().Provision(ctx)
		assert.ErrorIs(t, err, ErrNetwork)
		assert.ErrorIs(t, err, network.ErrNoResolver)
	})

	t.Run("resolver failure", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("vpc limit exceeded")
		ctx := newNetworkContext(&blueprint.Config{ID: "demo"}, "", &stubResolver{err: cause})
		err := NewNetworkPhase().Provision(ctx)
		var netErr *NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.ErrorIs(t, err, cause)
	})
}

func TestDeploy_NetworkFailureStopsBeforeCluster(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{}
	_, err := Deploy(context.Background(), blueprint.NewScope("test", nil), &blueprint.Config{ID: "demo"},
		WithObserver(NewLogObserver(logr.Discard())),
		WithDefaults(Defaults{Provider: provider}),
		WithNetworkResolver(&stubResolver{err: errors.New("denied")}),
	)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Zero(t, provider.calls)
}

func TestDeploy_ResolvedNetworkReachesProvider(t *testing.T) {
	t.Parallel()
	provider := &fakeProvider{}
	info, err := Deploy(context.Background(), blueprint.NewScope("test", map[string]string{"vpc": "default"}), &blueprint.Config{ID: "demo"},
		WithObserver(NewLogObserver(logr.Discard())),
		WithDefaults(Defaults{Provider: provider, Version: "1.29"}),
		WithNetworkResolver(&stubResolver{}),
	)
	require.NoError(t, err)
	assert.Equal(t, "vpc-default", provider.net.ID)
	assert.Equal(t, "vpc-default", info.Cluster.Network.ID)
}
