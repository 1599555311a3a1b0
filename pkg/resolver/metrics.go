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

package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sourcesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conform_resolver_sources_total",
			Help: "Total number of config sources visited by outcome",
		},
		[]string{"outcome"},
	)

	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conform_resolver_fetch_duration_seconds",
			Help:    "Duration of config source fetches in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"kind"},
	)

	rulesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conform_resolver_rules_total",
			Help: "Total number of rules merged into effective configurations",
		},
	)
)
