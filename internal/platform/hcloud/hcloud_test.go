package hcloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/blueprints/internal/config"
	"github.com/imamik/blueprints/internal/network"
	"github.com/imamik/blueprints/internal/util/labels"
)

// testServer is an in-memory Hetzner Cloud network API.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux

	mu         sync.Mutex
	seq        int64
	networks   map[int64]*schema.Network
	addSubnets int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		mux:      http.NewServeMux(),
		networks: map[int64]*schema.Network{},
		seq:      100,
	}
	ts.mux.HandleFunc("GET /networks", ts.listNetworks)
	ts.mux.HandleFunc("POST /networks", ts.createNetwork)
	ts.mux.HandleFunc("GET /networks/{id}", ts.getNetwork)
	ts.mux.HandleFunc("POST /networks/{id}/actions/add_subnet", ts.addSubnet)
	ts.mux.HandleFunc("GET /actions", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ActionListResponse{Actions: []schema.Action{}})
	})
	ts.server = httptest.NewServer(ts.mux)
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) add(n schema.Network) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if n.ID == 0 {
		ts.seq++
		n.ID = ts.seq
	}
	ts.networks[n.ID] = &n
}

func (ts *testServer) realClient() *RealClient {
	return NewRealClient("test-token",
		WithHCloudClient(hcloud.NewClient(
			hcloud.WithToken("test-token"),
			hcloud.WithEndpoint(ts.server.URL),
		)),
		WithTimeouts(&config.Timeouts{
			NetworkAction:     10 * time.Second,
			RetryMaxAttempts:  2,
			RetryInitialDelay: 10 * time.Millisecond,
		}),
	)
}

func (ts *testServer) listNetworks(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	name := r.URL.Query().Get("name")
	selector := r.URL.Query().Get("label_selector")
	out := []schema.Network{}
	for id := int64(0); id <= ts.seq; id++ {
		n, ok := ts.networks[id]
		if !ok {
			continue
		}
		if name != "" && n.Name != name {
			continue
		}
		if selector == labels.SelectorForDefaultNetwork() && n.Labels[labels.KeyDefaultNetwork] != "true" {
			continue
		}
		out = append(out, *n)
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"networks": out,
		"meta": schema.Meta{Pagination: &schema.MetaPagination{
			Page: 1, PerPage: 50, LastPage: 1, TotalEntries: len(out),
		}},
	})
}

func (ts *testServer) createNetwork(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string            `json:"name"`
		IPRange string            `json:"ip_range"`
		Labels  map[string]string `json:"labels"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ts.add(schema.Network{Name: req.Name, IPRange: req.IPRange, Labels: req.Labels, Subnets: []schema.NetworkSubnet{}})

	ts.mu.Lock()
	created := *ts.networks[ts.seq]
	ts.mu.Unlock()
	jsonResponse(w, http.StatusCreated, schema.NetworkCreateResponse{Network: created})
}

func (ts *testServer) lookup(w http.ResponseWriter, r *http.Request) *schema.Network {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	n, ok := ts.networks[id]
	if !ok {
		jsonResponse(w, http.StatusNotFound, schema.ErrorResponse{
			Error: schema.Error{Code: string(hcloud.ErrorCodeNotFound), Message: "network not found"},
		})
		return nil
	}
	return n
}

func (ts *testServer) getNetwork(w http.ResponseWriter, r *http.Request) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if n := ts.lookup(w, r); n != nil {
		jsonResponse(w, http.StatusOK, schema.NetworkGetResponse{Network: *n})
	}
}

func (ts *testServer) addSubnet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type        string `json:"type"`
		IPRange     string `json:"ip_range"`
		NetworkZone string `json:"network_zone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()
	n := ts.lookup(w, r)
	if n == nil {
		return
	}
	ts.addSubnets++
	n.Subnets = append(n.Subnets, schema.NetworkSubnet{
		Type:        req.Type,
		IPRange:     req.IPRange,
		NetworkZone: req.NetworkZone,
	})
	jsonResponse(w, http.StatusCreated, schema.NetworkActionAddSubnetResponse{
		Action: schema.Action{ID: int64(ts.addSubnets), Command: "add_subnet", Status: "success", Progress: 100},
	})
}

// jsonResponse writes a JSON response with the given status code and body.
func jsonResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func TestNetworkResolver_ImplementsResolver(t *testing.T) {
	t.Parallel()
	var _ network.Resolver = NewNetworkResolver(nil, "")
}

func TestNewNetworkResolver_Defaults(t *testing.T) {
	t.Parallel()
	r := NewNetworkResolver(nil, "")
	assert.Equal(t, "10.0.0.0/16", r.cidr)
	assert.Equal(t, []string{"eu-central"}, r.zones)

	r = NewNetworkResolver(nil, "10.8.0.0/16", "eu-central", "us-east")
	assert.Equal(t, "10.8.0.0/16", r.cidr)
	assert.Equal(t, []string{"eu-central", "us-east"}, r.zones)
}

func TestNetworkResolver_LookupDefault(t *testing.T) {
	t.Parallel()

	t.Run("single labelled network", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t)
		ts.add(schema.Network{ID: 1, Name: "other", IPRange: "10.1.0.0/16"})
		ts.add(schema.Network{ID: 2, Name: "shared", IPRange: "10.0.0.0/16",
			Labels: map[string]string{labels.KeyDefaultNetwork: "true"},
			Subnets: []schema.NetworkSubnet{
				{Type: "cloud", IPRange: "10.0.0.0/17", NetworkZone: "eu-central"},
			}})

		h, err := NewNetworkResolver(ts.realClient(), "").LookupDefault(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "2", h.ID)
		assert.Equal(t, "shared", h.Name)
		assert.Equal(t, ProviderName, h.Provider)
		assert.True(t, h.Default)
		assert.Equal(t, "10.0.0.0/16", h.CIDR)
		require.Len(t, h.Subnets, 1)
		assert.Equal(t, network.Subnet{ID: "2/10.0.0.0/17", CIDR: "10.0.0.0/17", Zone: "eu-central"}, h.Subnets[0])
	})

	t.Run("none labelled", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t)
		ts.add(schema.Network{ID: 1, Name: "other", IPRange: "10.1.0.0/16"})

		_, err := NewNetworkResolver(ts.realClient(), "").LookupDefault(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no network is labelled")
	})

	t.Run("ambiguous", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t)
		for _, name := range []string{"a", "b"} {
			ts.add(schema.Network{Name: name, IPRange: "10.0.0.0/16",
				Labels: map[string]string{labels.KeyDefaultNetwork: "true"}})
		}

		_, err := NewNetworkResolver(ts.realClient(), "").LookupDefault(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 networks are labelled")
	})
}

func TestNetworkResolver_Lookup(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.add(schema.Network{ID: 7, Name: "prod", IPRange: "10.2.0.0/16"})
	r := NewNetworkResolver(ts.realClient(), "")

	tests := []struct {
		name    string
		id      string
		wantErr string
	}{
		{name: "by id", id: "7"},
		{name: "by name", id: "prod"},
		{name: "unknown id", id: "8", wantErr: "network 8 not found"},
		{name: "unknown name", id: "staging", wantErr: "network staging not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := r.Lookup(context.Background(), tt.id)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "7", h.ID)
			assert.Equal(t, "prod", h.Name)
			assert.False(t, h.Default)
		})
	}
}

func TestNetworkResolver_Create(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	r := NewNetworkResolver(ts.realClient(), "10.4.0.0/16", "eu-central", "us-east")

	h, err := r.Create(context.Background(), "demo-net")
	require.NoError(t, err)

	assert.Equal(t, "demo-net", h.Name)
	assert.Equal(t, "10.4.0.0/16", h.CIDR)
	assert.Equal(t, 2, ts.addSubnets)
	require.Len(t, h.Subnets, 2)
	assert.Equal(t, "eu-central", h.Subnets[0].Zone)
	assert.Equal(t, "10.4.0.0/17", h.Subnets[0].CIDR)
	assert.Equal(t, "us-east", h.Subnets[1].Zone)
	assert.Equal(t, "10.4.128.0/17", h.Subnets[1].CIDR)

	ts.mu.Lock()
	created := ts.networks[ts.seq]
	ts.mu.Unlock()
	assert.Equal(t, labels.ManagedByBlueprints, created.Labels[labels.KeyManagedBy])

	t.Run("idempotent", func(t *testing.T) {
		again, err := r.Create(context.Background(), "demo-net")
		require.NoError(t, err)
		assert.Equal(t, h.ID, again.ID)
		assert.Equal(t, 2, ts.addSubnets)
	})
}

func TestNetworkResolver_CreateConflictingRange(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ts.add(schema.Network{Name: "demo-net", IPRange: "10.9.0.0/16"})

	_, err := NewNetworkResolver(ts.realClient(), "10.0.0.0/16").Create(context.Background(), "demo-net")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different IP range")
	assert.Equal(t, 0, ts.addSubnets)
}

func TestNetworkResolver_CreateInvalidCIDR(t *testing.T) {
	t.Parallel()
	_, err := NewNetworkResolver(nil, "not-a-cidr").Create(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to plan subnets")
}

func TestNetworkResolve_CreatesWhenNoHint(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	h, err := network.Resolve(context.Background(), NewNetworkResolver(ts.realClient(), ""), nil, "", "bp-net")
	require.NoError(t, err)
	assert.Equal(t, "bp-net", h.Name)
	assert.Equal(t, 1, ts.addSubnets)
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		retryable bool
		notFound  bool
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: errors.New("boom")},
		{name: "locked", err: hcloud.Error{Code: hcloud.ErrorCodeLocked}, retryable: true},
		{name: "conflict", err: hcloud.Error{Code: hcloud.ErrorCodeConflict}, retryable: true},
		{name: "rate limit", err: hcloud.Error{Code: hcloud.ErrorCodeRateLimitExceeded}, retryable: true},
		{name: "unavailable", err: hcloud.Error{Code: hcloud.ErrorCodeResourceUnavailable}, retryable: true},
		{name: "not found", err: hcloud.Error{Code: hcloud.ErrorCodeNotFound}, notFound: true},
		{name: "wrapped locked", err: fmt.Errorf("outer: %w", hcloud.Error{Code: hcloud.ErrorCodeLocked}), retryable: true},
		{name: "invalid input", err: hcloud.Error{Code: hcloud.ErrorCodeInvalidInput}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.retryable, isRetryable(tt.err))
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
		})
	}
}
