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

// Package errors provides structured error types shared by the conform
// packages.
//
// Errors that cross a package boundary carry an ErrorCode so callers can tell
// a missing configuration source from a malformed one or a timed out fetch
// without string matching:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeUnavailable,
//	    "failed to fetch config",
//	    cause,
//	    map[string]any{"source": src.String()},
//	)
//
//	if errors.CodeOf(err) == errors.ErrCodeTimeout {
//	    // retry or report
//	}
//
// StructuredError implements Unwrap, so the standard library errors.Is and
// errors.As keep working against the wrapped cause.
package errors
