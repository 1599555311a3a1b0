// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/NVIDIA/conform/pkg/defaults"
	"github.com/NVIDIA/conform/pkg/errors"
)

// ConfigMapURIScheme is the URI scheme for ConfigMap sources (e.g., "cm://namespace/name/key").
const ConfigMapURIScheme = "cm://"

// Interface is the subset of the Kubernetes client used by this package.
type Interface = kubernetes.Interface

// BuildKubeClient creates a Kubernetes client from kubeconfig. An empty path
// falls back to $KUBECONFIG, then ~/.kube/config, then in-cluster config.
func BuildKubeClient(kubeconfig string) (*kubernetes.Clientset, *rest.Config, error) {
	var config *rest.Config
	var err error

	if kubeconfig == "" {
		kubeconfig = os.Getenv("KUBECONFIG")

		if kubeconfig == "" {
			kubeconfig = filepath.Join(homedir.HomeDir(), ".kube", "config")
			if _, err = os.Stat(kubeconfig); os.IsNotExist(err) {
				kubeconfig = ""
			}
		}
	}

	// Use InClusterConfig directly when no kubeconfig is available
	// This avoids the warning: "Neither --kubeconfig nor --master was specified"
	if kubeconfig == "" {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
	} else {
		config, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
		}
	}

	client, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	return client, config, nil
}

// ConfigMapRef locates one data key of a ConfigMap.
type ConfigMapRef struct {
	Namespace string
	Name      string
	// Key is the data key to read. Empty selects defaults.ConfigMapDataKey,
	// or the only key when the ConfigMap has exactly one.
	Key string
}

// String returns the cm:// form of the reference.
func (r ConfigMapRef) String() string {
	s := ConfigMapURIScheme + r.Namespace + "/" + r.Name
	if r.Key != "" {
		s += "/" + r.Key
	}
	return s
}

// ParseConfigMapURI parses cm://namespace/name[/key].
func ParseConfigMapURI(uri string) (ConfigMapRef, error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return ConfigMapRef{}, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme))
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, ConfigMapURIScheme), "/", 3)
	if len(parts) < 2 {
		return ConfigMapRef{}, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid ConfigMap URI format: expected %snamespace/name[/key], got %s", ConfigMapURIScheme, uri))
	}

	ref := ConfigMapRef{
		Namespace: strings.TrimSpace(parts[0]),
		Name:      strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		ref.Key = strings.TrimSpace(parts[2])
	}

	if ref.Namespace == "" {
		return ConfigMapRef{}, errors.New(errors.ErrCodeInvalidRequest, "invalid ConfigMap URI: namespace cannot be empty")
	}
	if ref.Name == "" {
		return ConfigMapRef{}, errors.New(errors.ErrCodeInvalidRequest, "invalid ConfigMap URI: name cannot be empty")
	}
	if msgs := validation.IsDNS1123Label(ref.Namespace); len(msgs) > 0 {
		return ConfigMapRef{}, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid ConfigMap namespace %q: %s", ref.Namespace, strings.Join(msgs, "; ")))
	}
	if msgs := validation.IsDNS1123Subdomain(ref.Name); len(msgs) > 0 {
		return ConfigMapRef{}, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid ConfigMap name %q: %s", ref.Name, strings.Join(msgs, "; ")))
	}
	if ref.Key != "" {
		if msgs := validation.IsConfigMapKey(ref.Key); len(msgs) > 0 {
			return ConfigMapRef{}, errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid ConfigMap key %q: %s", ref.Key, strings.Join(msgs, "; ")))
		}
	}

	return ref, nil
}

// ReadConfigMap returns the content of one key of a ConfigMap. The read is
// bounded by defaults.K8sReadTimeout.
func ReadConfigMap(ctx context.Context, c Interface, ref ConfigMapRef) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.K8sReadTimeout)
	defer cancel()

	cm, err := c.CoreV1().ConfigMaps(ref.Namespace).Get(ctx, ref.Name, metav1.GetOptions{})
	if err != nil {
		code := errors.ErrCodeUnavailable
		switch {
		case apierrors.IsNotFound(err):
			code = errors.ErrCodeNotFound
		case apierrors.IsForbidden(err), apierrors.IsUnauthorized(err):
			code = errors.ErrCodeUnauthorized
		case apierrors.IsTimeout(err), apierrors.IsServerTimeout(err), ctx.Err() != nil:
			code = errors.ErrCodeTimeout
		}
		return nil, errors.Wrap(code, fmt.Sprintf("failed to get ConfigMap %s/%s", ref.Namespace, ref.Name), err)
	}

	key := ref.Key
	if key == "" {
		key = defaultKey(cm.Data, cm.BinaryData)
	}

	if v, ok := cm.Data[key]; ok {
		return []byte(v), nil
	}
	if v, ok := cm.BinaryData[key]; ok {
		return v, nil
	}

	return nil, errors.NewWithContext(errors.ErrCodeNotFound,
		fmt.Sprintf("ConfigMap %s/%s has no key %q", ref.Namespace, ref.Name, key),
		map[string]any{"keys": keysOf(cm.Data, cm.BinaryData)})
}

func defaultKey(data map[string]string, binary map[string][]byte) string {
	if len(data)+len(binary) == 1 {
		return keysOf(data, binary)[0]
	}
	return defaults.ConfigMapDataKey
}

func keysOf(data map[string]string, binary map[string][]byte) []string {
	keys := make([]string, 0, len(data)+len(binary))
	for k := range data {
		keys = append(keys, k)
	}
	for k := range binary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
