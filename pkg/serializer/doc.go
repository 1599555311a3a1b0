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

// Package serializer writes results in the CLI output formats and reads
// remote documents over HTTP.
//
// # Output formats
//
//   - text: the value's own human-readable rendering (TextWriter)
//   - json: indented JSON
//   - yaml: YAML with two-space indentation
//   - table: aligned columns of the rows a Tabular value provides; other
//     values are rejected
//
// Usage:
//
//	w, err := serializer.NewFileWriterOrStdout(serializer.FormatJSON, path)
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	if err := w.Serialize(ctx, report); err != nil {
//		return err
//	}
//
// # HTTP
//
// HttpReader fetches a document with bounded timeouts, a response size cap and
// optional request pacing:
//
//	r := serializer.NewHttpReader(
//		serializer.WithTotalTimeout(10*time.Second),
//		serializer.WithRateLimit(rate.NewLimiter(20, 10)),
//	)
//	data, err := r.ReadWithContext(ctx, "https://example.com/conform.yaml")
//
// Non-200 responses are returned as structured errors: 404 maps to
// NOT_FOUND, 401 and 403 to UNAUTHORIZED, 5xx to SERVICE_UNAVAILABLE.
package serializer
