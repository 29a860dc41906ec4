package provisioning

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"github.com/imamik/blueprints/internal/blueprint"
	"github.com/imamik/blueprints/internal/network"
	"github.com/imamik/blueprints/internal/util/async"
)

// callLog records calls from every fake in the order they happen.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *callLog) withPrefix(prefix string) []string {
	var out []string
	for _, c := range l.all() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func (l *callLog) indexOf(call string) int {
	for i, c := range l.all() {
		if c == call {
			return i
		}
	}
	return -1
}

// fakeProvider returns an empty ClusterInfo, or err.
type fakeProvider struct {
	log     *callLog
	err     error
	calls   int
	version string
	net     network.Handle
}

func (p *fakeProvider) CreateCluster(_ context.Context, _ *blueprint.Scope, net network.Handle, version string) (*blueprint.ClusterInfo, error) {
	p.calls++
	p.version = version
	p.net = net
	if p.log != nil {
		p.log.add("cluster")
	}
	if p.err != nil {
		return nil, p.err
	}
	return blueprint.NewClusterInfo(blueprint.Cluster{Name: "test", Network: net}, version), nil
}

// fakeAddOn deploys by running run in a future, or returns no future when
// run is nil.
type fakeAddOn struct {
	id        string
	log       *callLog
	run       func(ctx context.Context) (any, error)
	deployErr error
}

func (a *fakeAddOn) ID() string { return a.id }

func (a *fakeAddOn) Deploy(ctx context.Context, _ *blueprint.ClusterInfo) (*async.Future[any], error) {
	a.log.add("deploy:%s", a.id)
	if a.deployErr != nil {
		return nil, a.deployErr
	}
	if a.run == nil {
		return nil, nil
	}
	return async.Go(ctx, func(ctx context.Context) (any, error) {
		v, err := a.run(ctx)
		if err != nil {
			a.log.add("rejected:%s", a.id)
		} else {
			a.log.add("resolved:%s", a.id)
		}
		return v, err
	}), nil
}

// hookAddOn is a fakeAddOn that also implements blueprint.PostDeployer.
type hookAddOn struct {
	fakeAddOn
	hookErr   error
	sawTeams  []string
	sawAddOns []string
}

func (a *hookAddOn) PostDeploy(_ context.Context, info *blueprint.ClusterInfo, teams []blueprint.Team) error {
	a.log.add("hook:%s", a.id)
	for _, t := range teams {
		a.sawTeams = append(a.sawTeams, t.Name())
	}
	a.sawAddOns = info.ProvisionedAddOnKeys()
	return a.hookErr
}

type fakeTeam struct {
	name     string
	log      *callLog
	err      error
	sawAddOn []string
}

func (t *fakeTeam) Name() string { return t.name }

func (t *fakeTeam) Setup(_ context.Context, info *blueprint.ClusterInfo) error {
	t.log.add("team:%s", t.name)
	t.sawAddOn = info.ProvisionedAddOnKeys()
	return t.err
}

// resolving returns a run func resolving to v.
func resolving(v any) func(context.Context) (any, error) {
	return func(context.Context) (any, error) { return v, nil }
}

// rejecting returns a run func rejecting with err.
func rejecting(err error) func(context.Context) (any, error) {
	return func(context.Context) (any, error) { return nil, err }
}

// testDeploy runs Deploy with a pre-resolved network and a recording observer.
func testDeploy(ctx context.Context, cfg *blueprint.Config, provider blueprint.ClusterProvider, opts ...Option) (*blueprint.ClusterInfo, *RecordingObserver, error) {
	if cfg.Network == nil {
		cfg.Network = &network.Handle{ID: "vpc-test", Provider: "test"}
	}
	rec := NewRecordingObserver(NewLogObserver(logr.Discard()))
	all := append([]Option{
		WithObserver(rec),
		WithDefaults(Defaults{Provider: provider, Version: DefaultVersion}),
	}, opts...)
	info, err := Deploy(ctx, blueprint.NewScope("test", nil), cfg, all...)
	return info, rec, err
}
