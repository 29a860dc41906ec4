package k8sclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/yaml"
)

// ObjectRef identifies an applied object.
type ObjectRef struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`
	Namespace  string `json:"namespace,omitempty"`
	Name       string `json:"name"`
}

// String implements fmt.Stringer.
func (r ObjectRef) String() string {
	if r.Namespace == "" {
		return fmt.Sprintf("%s/%s", r.Kind, r.Name)
	}
	return fmt.Sprintf("%s/%s/%s", r.Kind, r.Namespace, r.Name)
}

// DecodeManifests parses multi-document YAML into unstructured objects.
// Empty documents are skipped.
func DecodeManifests(manifests []byte) ([]*unstructured.Unstructured, error) {
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifests), 4096)

	var objs []*unstructured.Unstructured
	for docIndex := 0; ; docIndex++ {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode manifest document %d: %w", docIndex, err)
		}

		// Skip empty documents (common in multi-doc YAML)
		if len(obj.Object) == 0 {
			continue
		}
		objs = append(objs, &obj)
	}
	return objs, nil
}

// ApplyManifests applies multi-document YAML using Server-Side Apply.
// Each document in the YAML is parsed and applied separately.
func (c *client) ApplyManifests(ctx context.Context, manifests []byte, fieldManager string) ([]ObjectRef, error) {
	objs, err := DecodeManifests(manifests)
	if err != nil {
		return nil, err
	}

	refs := make([]ObjectRef, 0, len(objs))
	for _, obj := range objs {
		ref, err := c.applyObject(ctx, obj, fieldManager)
		if err != nil {
			return refs, fmt.Errorf("failed to apply %s %s/%s: %w",
				obj.GetKind(), obj.GetNamespace(), obj.GetName(), err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// applyObject applies a single unstructured object using Server-Side Apply.
func (c *client) applyObject(ctx context.Context, obj *unstructured.Unstructured, fieldManager string) (ObjectRef, error) {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return ObjectRef{}, fmt.Errorf("object has no kind set")
	}

	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return ObjectRef{}, fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return ObjectRef{}, fmt.Errorf("failed to marshal object to JSON: %w", err)
	}
	opts := metav1.PatchOptions{FieldManager: fieldManager}

	ref := ObjectRef{APIVersion: obj.GetAPIVersion(), Kind: gvk.Kind, Name: obj.GetName()}
	resource := c.dynamicClient.Resource(mapping.Resource)

	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		ref.Namespace = obj.GetNamespace()
		if ref.Namespace == "" {
			ref.Namespace = "default"
		}
		_, err = resource.Namespace(ref.Namespace).Patch(ctx, ref.Name, types.ApplyPatchType, data, opts)
	} else {
		_, err = resource.Patch(ctx, ref.Name, types.ApplyPatchType, data, opts)
	}
	if err != nil {
		return ObjectRef{}, fmt.Errorf("server-side apply failed: %w", err)
	}

	return ref, nil
}
