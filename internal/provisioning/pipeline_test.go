package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"

	"github.com/imamik/blueprints/internal/blueprint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPhase implements the Phase interface for testing.
type mockPhase struct {
	name string
	err  error
	ran  *[]string
}

func (m *mockPhase) Name() string { return m.name }
func (m *mockPhase) Provision(_ *Context) error {
	*m.ran = append(*m.ran, m.name)
	return m.err
}

func newTestContext() (*Context, *RecordingObserver) {
	rec := NewRecordingObserver(NewLogObserver(logr.Discard()))
	return NewContext(context.Background(), nil, &blueprint.Config{ID: "demo"}, Defaults{}, rec), rec
}

func TestRunPhases_Success(t *testing.T) {
	t.Parallel()
	var ran []string
	ctx, rec := newTestContext()

	err := RunPhases(ctx, []Phase{
		&mockPhase{name: "one", ran: &ran},
		&mockPhase{name: "two", ran: &ran},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, ran)
	assert.Len(t, rec.EventsOfType(EventPhaseStarted), 2)
	assert.Len(t, rec.EventsOfType(EventPhaseCompleted), 2)
}

func TestRunPhases_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	var ran []string
	ctx, rec := newTestContext()
	cause := errors.New("boom")

	err := RunPhases(ctx, []Phase{
		&mockPhase{name: "one", ran: &ran},
		&mockPhase{name: "two", ran: &ran, err: cause},
		&mockPhase{name: "three", ran: &ran},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "two phase failed: boom", err.Error())
	var phaseErr *PhaseError
	require.ErrorAs(t, err, &phaseErr)
	assert.Equal(t, "two", phaseErr.Phase)
	assert.Equal(t, []string{"one", "two"}, ran)

	failed := rec.EventsOfType(EventPhaseFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "two", failed[0].Phase)
	assert.ErrorIs(t, failed[0].Err, cause)
}

func TestRunPhases_Empty(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext()
	assert.NoError(t, RunPhases(ctx, nil))
}

func TestDeploy_WithPhases(t *testing.T) {
	t.Parallel()
	var ran []string
	info, err := Deploy(context.Background(), nil, &blueprint.Config{ID: "demo"},
		WithObserver(NewLogObserver(logr.Discard())),
		WithDefaults(Defaults{}),
		WithPhases(&mockPhase{name: "only", ran: &ran}),
	)
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.Equal(t, []string{"only"}, ran)
}

func TestDefaultPhases(t *testing.T) {
	t.Parallel()
	var names []string
	for _, p := range DefaultPhases() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"validation", "network", "cluster", "addons", "teams", "hooks"}, names)
}

func TestDefaults_Resolve(t *testing.T) {
	t.Parallel()
	fallback := &fakeProvider{}
	d := Defaults{Provider: fallback, Version: "1.20"}

	p, v := d.Resolve(nil)
	assert.Same(t, fallback, p)
	assert.Equal(t, "1.20", v)

	own := &fakeProvider{}
	p, v = d.Resolve(&blueprint.Config{Provider: own, Version: "1.30"})
	assert.Same(t, own, p)
	assert.Equal(t, "1.30", v)
}

func TestStandardDefaults(t *testing.T) {
	t.Parallel()
	d := StandardDefaults()
	assert.NotNil(t, d.Provider)
	assert.Equal(t, DefaultVersion, d.Version)
}
