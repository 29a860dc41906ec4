package labels

// Standard label keys, namespaced under blueprints.io.
const (
	// KeyBlueprint identifies which blueprint a resource belongs to
	KeyBlueprint = "blueprints.io/blueprint"

	// KeyTeam identifies the team owning a namespace or binding
	KeyTeam = "blueprints.io/team"

	// KeyAddOn identifies the add-on that created a resource
	KeyAddOn = "blueprints.io/addon"

	// KeyDefaultNetwork marks the network that the "default" hint resolves to
	KeyDefaultNetwork = "blueprints.io/default"

	// KeyManagedBy is the well-known Kubernetes managed-by label
	KeyManagedBy = "app.kubernetes.io/managed-by"
)

// ManagedBy values
const (
	ManagedByBlueprints = "blueprints"
)

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a new label builder with the blueprint ID pre-set.
func NewLabelBuilder(blueprintID string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyBlueprint: blueprintID,
			KeyManagedBy: ManagedByBlueprints,
		},
	}
}

// WithTeam adds a team label.
func (lb *LabelBuilder) WithTeam(team string) *LabelBuilder {
	lb.labels[KeyTeam] = team
	return lb
}

// WithAddOn adds an add-on label.
func (lb *LabelBuilder) WithAddOn(addOnID string) *LabelBuilder {
	lb.labels[KeyAddOn] = addOnID
	return lb
}

// WithManagedBy sets who manages this resource.
func (lb *LabelBuilder) WithManagedBy(manager string) *LabelBuilder {
	lb.labels[KeyManagedBy] = manager
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// SelectorForBlueprint returns a label selector string for all resources of a blueprint.
func SelectorForBlueprint(blueprintID string) string {
	return KeyBlueprint + "=" + blueprintID
}

// SelectorForDefaultNetwork returns the label selector identifying the default network.
func SelectorForDefaultNetwork() string {
	return KeyDefaultNetwork + "=true"
}
