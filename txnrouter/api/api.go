/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package api

import (
	"context"
	"time"

	dp "github.com/hyperledger/fabric-protos-go/discovery"
)

// Network provides the channel-scoped collaborators shared by all contracts
// on one gateway connection.
type Network interface {
	// Channel returns the underlying channel client
	Channel() ChannelClient

	// DiscoveryService returns the network-level discovery service,
	// or nil if the gateway was configured without discovery
	DiscoveryService() DiscoveryService

	// Transactor returns the endorsement/commit machinery that dispatches
	// transaction proposals
	Transactor() TransactionClient

	// Options returns the gateway options in effect for this network
	Options() *GatewayOptions

	// IdentityContext returns the identity used for discovery queries
	IdentityContext() IdentityContext
}

// ChannelClient is a narrow view of the underlying channel
type ChannelClient interface {
	// Name returns the channel name
	Name() string

	// NewDiscoveryService instantiates a discovery service scoped to the
	// given chaincode
	NewDiscoveryService(chaincodeID string) (DiscoveryService, error)
}

// DiscoveryService produces routing handlers from discovery results
type DiscoveryService interface {
	// NewHandler returns a routing handler for the given proposal interest.
	// Failures are returned as-is to the caller.
	NewHandler(identity IdentityContext, opts HandlerOptions, interest *dp.ChaincodeInterest) (Handler, error)
}

// Handler encapsulates the peer-selection strategy for proposal dispatch.
// The routing layer only attaches it to the transaction request; it is
// invoked by the endorsement machinery.
type Handler interface {
	// Endorsers returns the peers that should endorse the proposal
	Endorsers(ctx context.Context) ([]Peer, error)
}

// Peer is a narrow view of an endorsing peer
type Peer interface {
	// URL returns the peer's endpoint
	URL() string

	// MSPID returns the peer's MSP ID
	MSPID() string
}

// Endorsement describes a pending proposal
type Endorsement interface {
	// BuildProposalInterest returns the chaincodes and collections the
	// proposal touches
	BuildProposalInterest() *dp.ChaincodeInterest
}

// IdentityContext carries the identity used to authenticate discovery
// queries. Key material stays with the caller; only a signing callback
// crosses this boundary.
type IdentityContext interface {
	// MSPID returns the MSP ID of the identity
	MSPID() string

	// Identity returns the serialized identity
	Identity() []byte

	// Sign signs msg and returns the signature
	Sign(msg []byte) ([]byte, error)
}

// TransactionClient dispatches proposals and collects endorsements.
// Endorsement retries and commit-wait semantics live behind this interface.
type TransactionClient interface {
	// Submit endorses and commits the transaction, returning the payload
	Submit(ctx context.Context, request *TransactionRequest) ([]byte, error)

	// Evaluate runs the transaction on a single peer without committing
	Evaluate(ctx context.Context, request *TransactionRequest) ([]byte, error)
}

// TransactionRequest contains the parameters for one proposal dispatch
type TransactionRequest struct {
	// ChaincodeID identifies the chaincode to invoke
	ChaincodeID string
	// Name is the qualified transaction name. Name is passed to the
	// chaincode as the function name.
	Name string
	// Args to pass to the chaincode, in caller order
	Args [][]byte
	// Handler is the routing handler governing peer selection.
	// A nil Handler means static/fixed-peer routing.
	Handler Handler
}

// GatewayOptions are the network/gateway-level options copied into
// discovery handler creation
type GatewayOptions struct {
	EventHandler EventHandlerOptions
	Discovery    DiscoveryOptions
}

// DiscoveryOptions configure service discovery
type DiscoveryOptions struct {
	// Enabled indicates whether discovery should be used at all
	Enabled bool
	// AsLocalhost rewrites discovered endpoints to localhost, for
	// clients running outside the peer's docker network
	AsLocalhost bool
}

// EventHandlerOptions configure commit event handling
type EventHandlerOptions struct {
	// CommitTimeout is the maximum time to wait for a commit event
	CommitTimeout time.Duration
}

// HandlerOptions are passed to DiscoveryService.NewHandler
type HandlerOptions struct {
	EventHandler EventHandlerOptions
	AsLocalhost  bool
}
