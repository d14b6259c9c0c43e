/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resolver

import (
	"github.com/hyperledger/fabric-sdk-go/pkg/common/logging"
	"github.com/securekey/fabric-txnrouter/txnrouter/api"
)

var logger = logging.NewLogger("txnrouter")

// Scope identifies which discovery service governs an invocation
type Scope int

const (
	// NoDiscovery means no discovery service is configured and proposal
	// routing falls back to static/fixed endorsing peers
	NoDiscovery Scope = iota

	// ContractScoped means a contract-level discovery service overrides
	// the network-level one
	ContractScoped

	// NetworkScoped means the network-level discovery service applies
	NetworkScoped
)

// String returns the scope name
func (s Scope) String() string {
	switch s {
	case ContractScoped:
		return "contract"
	case NetworkScoped:
		return "network"
	default:
		return "none"
	}
}

// Resolve returns the discovery service governing an invocation along with
// its scope. Precedence: contract-level service, then network-level, then
// none. A nil service with scope NoDiscovery is not an error.
func Resolve(contractService api.DiscoveryService, network api.Network) (api.DiscoveryService, Scope) {
	if contractService != nil {
		return contractService, ContractScoped
	}
	if service := network.DiscoveryService(); service != nil {
		return service, NetworkScoped
	}
	return nil, NoDiscovery
}

// Resolver produces routing handlers for a network's contracts
type Resolver struct {
	network api.Network
}

// New returns a Resolver bound to the given network
func New(network api.Network) *Resolver {
	return &Resolver{network: network}
}

// Handler resolves the discovery service for an invocation and asks it for
// a routing handler parameterized by the endorsement's proposal interest
// and the gateway's options. A nil handler with a nil error means no
// discovery is configured and the caller should use static routing.
// Discovery service failures are returned unchanged.
func (r *Resolver) Handler(contractService api.DiscoveryService, endorsement api.Endorsement) (api.Handler, Scope, error) {
	service, scope := Resolve(contractService, r.network)
	if scope == NoDiscovery {
		logger.Debugf("No discovery service configured, using static routing")
		return nil, scope, nil
	}

	options := r.network.Options()
	handler, err := service.NewHandler(
		r.network.IdentityContext(),
		api.HandlerOptions{
			EventHandler: options.EventHandler,
			AsLocalhost:  options.Discovery.AsLocalhost,
		},
		endorsement.BuildProposalInterest(),
	)
	if err != nil {
		return nil, scope, err
	}

	logger.Debugf("Resolved %s-scoped discovery handler", scope)
	return handler, scope, nil
}
