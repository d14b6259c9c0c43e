/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package contract

import (
	"context"

	"github.com/hyperledger/fabric-lib-go/common/metrics"
	"github.com/hyperledger/fabric-lib-go/common/metrics/disabled"
	dp "github.com/hyperledger/fabric-protos-go/discovery"
	"github.com/hyperledger/fabric-sdk-go/pkg/common/logging"
	"github.com/securekey/fabric-txnrouter/txnrouter/api"
	"github.com/securekey/fabric-txnrouter/txnrouter/pkg/interest"
	"github.com/securekey/fabric-txnrouter/txnrouter/pkg/resolver"
	"github.com/securekey/fabric-txnrouter/util/errors"
)

var logger = logging.NewLogger("txnrouter")

// Contract is the entry point for invoking transactions on one chaincode.
// It owns the contract's discovery interests and resolves the discovery
// handler governing each invocation.
//
// A Contract is constructed once per chaincode and network. Its interest
// sequence assumes a single writer; concurrent AddDiscoveryInterest calls
// must be serialized by the caller.
type Contract struct {
	network          api.Network
	chaincodeID      string
	namespace        string
	collections      []string
	interests        *interest.Set
	discoveryService api.DiscoveryService
	resolver         *resolver.Resolver
	metrics          *Metrics
}

// Option configures a Contract
type Option func(c *Contract) error

// WithNamespace qualifies the contract's transaction names with the given
// namespace
func WithNamespace(namespace string) Option {
	return func(c *Contract) error {
		if namespace == "" {
			return errors.New(errors.ValidationError, "Namespace must be a non-empty string")
		}
		c.namespace = namespace
		return nil
	}
}

// WithCollections associates private data collections with the contract's
// default discovery interest
func WithCollections(collections ...string) Option {
	return func(c *Contract) error {
		c.collections = collections
		return nil
	}
}

// WithMetricsProvider counts contract operations through the given provider
func WithMetricsProvider(provider metrics.Provider) Option {
	return func(c *Contract) error {
		c.metrics = NewMetrics(provider)
		return nil
	}
}

// New returns a Contract for the given chaincode on the given network
func New(network api.Network, chaincodeID string, opts ...Option) (*Contract, error) {
	if network == nil {
		return nil, errors.New(errors.MissingRequiredParameterError, "network is required")
	}
	if chaincodeID == "" {
		return nil, errors.New(errors.MissingRequiredParameterError, "chaincodeID is required")
	}

	c := &Contract{
		network:     network,
		chaincodeID: chaincodeID,
		resolver:    resolver.New(network),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(&disabled.Provider{})
	}
	c.interests = interest.New(chaincodeID, c.collections)

	return c, nil
}

// ChaincodeID returns the ID of the chaincode this contract invokes
func (c *Contract) ChaincodeID() string {
	return c.chaincodeID
}

// Namespace returns the namespace qualifying transaction names, or empty
func (c *Contract) Namespace() string {
	return c.namespace
}

// CreateTransaction returns a transaction handle bound to this contract.
// The transaction name is qualified with the contract's namespace when one
// is set. Construction has no network side effect.
func (c *Contract) CreateTransaction(name string) (*Transaction, error) {
	if name == "" {
		return nil, errors.New(errors.ValidationError, "Transaction name must be a non-empty string")
	}
	qualifiedName := name
	if c.namespace != "" {
		qualifiedName = c.namespace + ":" + name
	}
	return &Transaction{contract: c, name: qualifiedName}, nil
}

// SubmitTransaction endorses and commits a transaction, returning its
// payload. Failures from the dispatch machinery are returned unchanged.
func (c *Contract) SubmitTransaction(ctx context.Context, name string, args ...string) ([]byte, error) {
	txn, err := c.CreateTransaction(name)
	if err != nil {
		return nil, err
	}
	return txn.Submit(ctx, args...)
}

// EvaluateTransaction runs a transaction without committing it, returning
// its payload. Failures from the dispatch machinery are returned unchanged.
func (c *Contract) EvaluateTransaction(ctx context.Context, name string, args ...string) ([]byte, error) {
	txn, err := c.CreateTransaction(name)
	if err != nil {
		return nil, err
	}
	return txn.Evaluate(ctx, args...)
}

// DiscoveryInterests returns the contract's ordered interest sequence,
// seeding the default interest on first access. The returned calls are
// copies.
func (c *Contract) DiscoveryInterests() []*dp.ChaincodeCall {
	return c.interests.Interests()
}

// AddDiscoveryInterest declares that transactions of this contract also
// require endorsement for the given chaincode and collections. An interest
// with the name of an existing entry replaces it in place.
func (c *Contract) AddDiscoveryInterest(call *dp.ChaincodeCall) error {
	if err := c.interests.Add(call); err != nil {
		return err
	}
	logger.Debugf("Added discovery interest [%s] to contract [%s]", call.Name, c.chaincodeID)
	return nil
}

// SetDiscoveryService sets a contract-scoped discovery service overriding
// the network-level one
func (c *Contract) SetDiscoveryService(service api.DiscoveryService) {
	c.discoveryService = service
}

// EnableDiscovery instantiates a contract-scoped discovery service from
// the underlying channel
func (c *Contract) EnableDiscovery() error {
	service, err := c.network.Channel().NewDiscoveryService(c.chaincodeID)
	if err != nil {
		return err
	}
	c.discoveryService = service
	return nil
}

// DiscoveryHandler returns the routing handler governing the given pending
// proposal. A nil handler with a nil error means no discovery service is
// configured and static routing applies. Discovery service failures are
// returned unchanged.
func (c *Contract) DiscoveryHandler(endorsement api.Endorsement) (api.Handler, error) {
	handler, scope, err := c.resolver.Handler(c.discoveryService, endorsement)
	c.metrics.DiscoveryResolutionCounter.With("scope", scope.String()).Add(1)
	if err != nil {
		return nil, err
	}
	return handler, nil
}
