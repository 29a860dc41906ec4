package k8sclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/restmapper"
	k8stesting "k8s.io/client-go/testing"
)

// patchRecorder captures apply patches sent through the fake dynamic client.
type patchRecorder struct {
	patches []k8stesting.PatchAction
	err     error
}

func setupApplyTestClient(t *testing.T) (Client, *patchRecorder) {
	t.Helper()

	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := fake.NewSimpleClientset()
	scheme := runtime.NewScheme()
	_ = corev1.AddToScheme(scheme)
	dynamicClient := dynamicfake.NewSimpleDynamicClient(scheme)

	rec := &patchRecorder{}
	dynamicClient.PrependReactor("patch", "*", func(action k8stesting.Action) (bool, runtime.Object, error) {
		patch := action.(k8stesting.PatchAction)
		rec.patches = append(rec.patches, patch)
		return true, nil, rec.err
	})

	return NewFromClients(clientset, dynamicClient, createApplyTestMapper()), rec
}

// createApplyTestMapper creates a REST mapper for testing
func createApplyTestMapper() meta.RESTMapper {
	resources := []*restmapper.APIGroupResources{
		{
			Group: metav1.APIGroup{
				Name: "",
				Versions: []metav1.GroupVersionForDiscovery{
					{GroupVersion: "v1", Version: "v1"},
				},
				PreferredVersion: metav1.GroupVersionForDiscovery{GroupVersion: "v1", Version: "v1"},
			},
			VersionedResources: map[string][]metav1.APIResource{
				"v1": {
					{Name: "configmaps", Namespaced: true, Kind: "ConfigMap"},
					{Name: "secrets", Namespaced: true, Kind: "Secret"},
					{Name: "namespaces", Namespaced: false, Kind: "Namespace"},
				},
			},
		},
	}
	return restmapper.NewDiscoveryRESTMapper(resources)
}

const testManifests = `apiVersion: v1
kind: Namespace
metadata:
  name: team-a
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: settings
  namespace: team-a
data:
  key: value
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: no-namespace
`

func TestApplyManifests(t *testing.T) {
	t.Parallel()
	c, rec := setupApplyTestClient(t)

	refs, err := c.ApplyManifests(context.Background(), []byte(testManifests), "blueprints-demo")
	require.NoError(t, err)

	assert.Equal(t, []ObjectRef{
		{APIVersion: "v1", Kind: "Namespace", Name: "team-a"},
		{APIVersion: "v1", Kind: "ConfigMap", Namespace: "team-a", Name: "settings"},
		{APIVersion: "v1", Kind: "ConfigMap", Namespace: "default", Name: "no-namespace"},
	}, refs)

	require.Len(t, rec.patches, 3)
	for _, p := range rec.patches {
		assert.Equal(t, types.ApplyPatchType, p.GetPatchType())
	}
	assert.Equal(t, "team-a", rec.patches[1].GetNamespace())
}

func TestApplyManifests_EmptyAndBlankDocuments(t *testing.T) {
	t.Parallel()
	c, rec := setupApplyTestClient(t)

	for _, m := range []string{"", "---\n---\n---\n"} {
		refs, err := c.ApplyManifests(context.Background(), []byte(m), "test")
		require.NoError(t, err)
		assert.Empty(t, refs)
	}
	assert.Empty(t, rec.patches)
}

func TestApplyManifests_InvalidYAML(t *testing.T) {
	t.Parallel()
	c, _ := setupApplyTestClient(t)

	_, err := c.ApplyManifests(context.Background(), []byte(`{invalid yaml: [`), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode manifest")
}

func TestApplyManifests_UnknownKind(t *testing.T) {
	t.Parallel()
	c, _ := setupApplyTestClient(t)

	_, err := c.ApplyManifests(context.Background(), []byte("apiVersion: example.com/v1\nkind: Widget\nmetadata:\n  name: w\n"), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get REST mapping")
}

func TestApplyManifests_PatchFailure(t *testing.T) {
	t.Parallel()
	c, rec := setupApplyTestClient(t)
	rec.err = errors.New("forbidden")

	refs, err := c.ApplyManifests(context.Background(), []byte(testManifests), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Namespace /team-a")
	assert.Empty(t, refs)
}

func TestDecodeManifests(t *testing.T) {
	t.Parallel()
	objs, err := DecodeManifests([]byte(testManifests))
	require.NoError(t, err)
	require.Len(t, objs, 3)
	assert.Equal(t, "Namespace", objs[0].GetKind())
	assert.Equal(t, "settings", objs[1].GetName())
}

func TestObjectRef_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Namespace/team-a", ObjectRef{Kind: "Namespace", Name: "team-a"}.String())
	assert.Equal(t, "ConfigMap/team-a/settings", ObjectRef{Kind: "ConfigMap", Namespace: "team-a", Name: "settings"}.String())
}

func TestCreateSecret(t *testing.T) {
	t.Parallel()
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := fake.NewSimpleClientset()
	c := &client{clientset: clientset}
	ctx := context.Background()

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "creds", Namespace: "default"},
		Data:       map[string][]byte{"old": []byte("1")},
	}
	require.NoError(t, c.CreateSecret(ctx, secret))

	replacement := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "creds", Namespace: "default"},
		Data:       map[string][]byte{"new": []byte("2")},
	}
	require.NoError(t, c.CreateSecret(ctx, replacement))

	got, err := clientset.CoreV1().Secrets("default").Get(ctx, "creds", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"new": []byte("2")}, got.Data)
}

func TestCreateSecret_Validation(t *testing.T) {
	t.Parallel()
	c := &client{clientset: fake.NewSimpleClientset()} //nolint:staticcheck // SA1019

	err := c.CreateSecret(context.Background(), &corev1.Secret{ObjectMeta: metav1.ObjectMeta{Name: "x"}})
	assert.ErrorContains(t, err, "namespace is required")
	err = c.CreateSecret(context.Background(), &corev1.Secret{ObjectMeta: metav1.ObjectMeta{Namespace: "default"}})
	assert.ErrorContains(t, err, "name is required")
}

func TestDeleteSecret(t *testing.T) {
	t.Parallel()
	//nolint:staticcheck // SA1019: NewSimpleClientset is sufficient for our testing needs
	clientset := fake.NewSimpleClientset(&corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Name: "creds", Namespace: "default"},
	})
	c := &client{clientset: clientset}

	require.NoError(t, c.DeleteSecret(context.Background(), "default", "creds"))
	// Deleting again is not an error.
	require.NoError(t, c.DeleteSecret(context.Background(), "default", "creds"))
	assert.Error(t, c.DeleteSecret(context.Background(), "", "creds"))
	assert.Error(t, c.DeleteSecret(context.Background(), "default", ""))
}

func TestNewFromKubeconfig_Invalid(t *testing.T) {
	t.Parallel()
	_, err := NewFromKubeconfig([]byte(`invalid kubeconfig content`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create REST config")

	_, err = NewRuntimeClient([]byte{})
	assert.Error(t, err)
}

func TestRefreshDiscovery_FakeClient(t *testing.T) {
	t.Parallel()
	c, _ := setupApplyTestClient(t)
	assert.NoError(t, c.RefreshDiscovery(context.Background()))
}

func TestScheme(t *testing.T) {
	t.Parallel()
	gvks, _, err := Scheme().ObjectKinds(&corev1.Namespace{})
	require.NoError(t, err)
	assert.Equal(t, "Namespace", gvks[0].Kind)
}
