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

// Package client reads conformance configuration from Kubernetes ConfigMaps.
//
// A ConfigMap source is addressed as cm://namespace/name[/key]. Without a key
// the ConfigMap's only entry is used, or the conform.yaml entry when there are
// several.
//
//	clientset, _, err := client.BuildKubeClient(kubeconfig)
//	if err != nil {
//	    return err
//	}
//	ref, err := client.ParseConfigMapURI("cm://platform/conform-policies")
//	if err != nil {
//	    return err
//	}
//	data, err := client.ReadConfigMap(ctx, clientset, ref)
//
// # Authentication Modes
//
// BuildKubeClient resolves credentials in this order:
//   - the explicit kubeconfig path
//   - the KUBECONFIG environment variable
//   - ~/.kube/config
//   - in-cluster service account credentials
//
// Errors from the API server are mapped onto structured error codes:
// NotFound to NOT_FOUND, Forbidden and Unauthorized to UNAUTHORIZED,
// timeouts to TIMEOUT and everything else to SERVICE_UNAVAILABLE.
package client
