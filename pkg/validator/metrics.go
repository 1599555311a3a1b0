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

package validator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rulesEvaluated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conform_validator_rules_evaluated_total",
			Help: "Total number of file rules evaluated",
		},
	)

	problemsFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conform_validator_problems_total",
			Help: "Total number of problems found by kind",
		},
		[]string{"kind"},
	)

	validateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "conform_validator_duration_seconds",
			Help:    "Duration of rule set evaluation in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		},
	)
)
