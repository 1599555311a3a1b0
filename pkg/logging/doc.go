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

// Package logging provides structured logging setup for conform.
//
// It wraps log/slog with the conventions used throughout the repository:
// JSON records on stderr, a module and version attribute on every record,
// and source locations when running at debug level.
//
// # Log Levels
//
// Supported log levels (case-insensitive): debug, info, warn/warning, error.
// Unknown values fall back to info.
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("conform", version, "warn")
//	    slog.Debug("resolving config", "source", src)
//	}
//
// The LOG_LEVEL environment variable is honored by SetDefaultStructuredLogger:
//
//	LOG_LEVEL=debug conform -f conform.yaml
//
// Problem lines printed by the CLI go to stdout and are not log records; logs
// stay on stderr so reports can be piped.
package logging
