/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package contract

import (
	"github.com/hyperledger/fabric-lib-go/common/metrics"
)

var (
	submitCounter = metrics.CounterOpts{
		Namespace:    "txnrouter",
		Subsystem:    "contract",
		Name:         "submit_total",
		Help:         "The number of submitted transactions.",
		LabelNames:   []string{"chaincode"},
		StatsdFormat: "%{#fqname}.%{chaincode}",
	}

	evaluateCounter = metrics.CounterOpts{
		Namespace:    "txnrouter",
		Subsystem:    "contract",
		Name:         "evaluate_total",
		Help:         "The number of evaluated transactions.",
		LabelNames:   []string{"chaincode"},
		StatsdFormat: "%{#fqname}.%{chaincode}",
	}

	discoveryResolutionCounter = metrics.CounterOpts{
		Namespace:    "txnrouter",
		Subsystem:    "contract",
		Name:         "discovery_resolution_total",
		Help:         "The number of discovery handler resolutions by scope.",
		LabelNames:   []string{"scope"},
		StatsdFormat: "%{#fqname}.%{scope}",
	}
)

//Metrics contain graphs
type Metrics struct {
	SubmitCounter              metrics.Counter
	EvaluateCounter            metrics.Counter
	DiscoveryResolutionCounter metrics.Counter
}

//NewMetrics create new instance of metrics
func NewMetrics(p metrics.Provider) *Metrics {
	return &Metrics{
		SubmitCounter:              p.NewCounter(submitCounter),
		EvaluateCounter:            p.NewCounter(evaluateCounter),
		DiscoveryResolutionCounter: p.NewCounter(discoveryResolutionCounter),
	}
}
