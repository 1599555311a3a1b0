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

package defaults

import "time"

// Config source defaults.
const (
	// ConfigFileName is the config file looked up when no source is given.
	ConfigFileName = "conform.yaml"

	// ContextRoot is the directory target file paths are resolved against.
	ContextRoot = "."

	// ConfigMapDataKey is the ConfigMap data key read for cm:// sources.
	ConfigMapDataKey = "conform.yaml"
)

// Fetch timeouts and pacing for remote config sources.
const (
	// FetchTimeout bounds a single remote config fetch. A fetch that exceeds
	// it is reported as a failed fetch.
	FetchTimeout = 30 * time.Second

	// FetchRateLimit is the steady state of remote fetches per second.
	FetchRateLimit = 20

	// FetchRateBurst is the number of fetches allowed before pacing applies.
	FetchRateBurst = 10
)

// Concurrency defaults.
const (
	// Concurrency bounds parallel include prefetches and rule evaluations.
	Concurrency = 8
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second

	// HTTPMaxBodySize caps the size of a fetched config document.
	HTTPMaxBodySize = 10 << 20
)

// Kubernetes timeouts for cm:// sources.
const (
	// K8sReadTimeout is the timeout for reading a ConfigMap.
	K8sReadTimeout = 30 * time.Second
)
