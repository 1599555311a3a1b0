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

// Package resolver merges a configuration document and everything it
// includes into one effective rule list.
//
// Documents are visited depth-first, left to right: a document's own rules
// come before the rules of its first include, which come before those of its
// second include. Every source is visited at most once, keyed by
// source.Source.Key, so include cycles terminate and a document included
// twice contributes its rules once.
//
// An include that cannot be fetched or parsed becomes a report.Problem and
// contributes no rules; its siblings are still resolved. Failure to load the
// root document is returned as an error.
//
// With WithConcurrency(n > 1) the includes of a document are fetched in the
// background, at most n at a time, while earlier siblings are processed. The
// merge order does not depend on fetch timing.
package resolver
