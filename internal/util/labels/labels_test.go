package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLabelBuilder(t *testing.T) {
	t.Parallel()
	got := NewLabelBuilder("demo").Build()

	assert.Equal(t, map[string]string{
		KeyBlueprint: "demo",
		KeyManagedBy: ManagedByBlueprints,
	}, got)
}

func TestFluentChaining(t *testing.T) {
	t.Parallel()
	got := NewLabelBuilder("demo").
		WithTeam("burnham").
		WithAddOn("metrics-server").
		WithManagedBy("someone-else").
		Merge(map[string]string{"extra": "1"}).
		Build()

	assert.Equal(t, "burnham", got[KeyTeam])
	assert.Equal(t, "metrics-server", got[KeyAddOn])
	assert.Equal(t, "someone-else", got[KeyManagedBy])
	assert.Equal(t, "1", got["extra"])
}

func TestBuildReturnsCopy(t *testing.T) {
	t.Parallel()
	lb := NewLabelBuilder("demo")
	first := lb.Build()
	first["mutated"] = "yes"

	assert.NotContains(t, lb.Build(), "mutated")
}

func TestSelectors(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "blueprints.io/blueprint=demo", SelectorForBlueprint("demo"))
	assert.Equal(t, "blueprints.io/default=true", SelectorForDefaultNetwork())
}
