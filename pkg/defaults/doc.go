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

// Package defaults provides centralized configuration constants for conform.
//
// Timeouts, rate limits and file names used across packages live here so the
// CLI flags, the HTTP reader and the resolver agree on the same values.
//
// # Timeout Guidelines
//
//   - Config fetches: 30s per source, applied to every remote include
//   - HTTP client: 30s total, 5s connect, 10s response headers
//   - Local file reads carry no timeout
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.FetchTimeout)
//	defer cancel()
package defaults
