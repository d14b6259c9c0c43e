/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"context"

	dp "github.com/hyperledger/fabric-protos-go/discovery"
	"github.com/securekey/fabric-txnrouter/txnrouter/api"
)

// MockNetwork implements api.Network for unit tests
type MockNetwork struct {
	MockChannel    *MockChannel
	Discovery      api.DiscoveryService
	MockTransactor *MockTransactionClient
	GatewayOptions *api.GatewayOptions
	Identity       *MockIdentity
}

// NewMockNetwork returns a network with no discovery service configured
func NewMockNetwork() *MockNetwork {
	return &MockNetwork{
		MockChannel:    &MockChannel{ChannelName: "mychannel"},
		MockTransactor: &MockTransactionClient{},
		GatewayOptions: &api.GatewayOptions{},
		Identity:       &MockIdentity{MSP: "Org1MSP"},
	}
}

// Channel returns the mock channel
func (n *MockNetwork) Channel() api.ChannelClient {
	return n.MockChannel
}

// DiscoveryService returns the configured discovery service, or nil
func (n *MockNetwork) DiscoveryService() api.DiscoveryService {
	return n.Discovery
}

// Transactor returns the mock transaction client
func (n *MockNetwork) Transactor() api.TransactionClient {
	return n.MockTransactor
}

// Options returns the gateway options
func (n *MockNetwork) Options() *api.GatewayOptions {
	return n.GatewayOptions
}

// IdentityContext returns the mock identity
func (n *MockNetwork) IdentityContext() api.IdentityContext {
	return n.Identity
}

// MockChannel implements api.ChannelClient
type MockChannel struct {
	ChannelName      string
	DiscoveryToServe api.DiscoveryService
	Err              error
}

// Name returns the channel name
func (c *MockChannel) Name() string {
	return c.ChannelName
}

// NewDiscoveryService returns the configured service or error
func (c *MockChannel) NewDiscoveryService(chaincodeID string) (api.DiscoveryService, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.DiscoveryToServe, nil
}

// MockDiscoveryService implements api.DiscoveryService, recording the
// arguments of the last NewHandler call
type MockDiscoveryService struct {
	Handler      api.Handler
	Err          error
	LastIdentity api.IdentityContext
	LastOptions  api.HandlerOptions
	LastInterest *dp.ChaincodeInterest
	Invocations  int
}

// NewHandler returns the configured handler or error
func (s *MockDiscoveryService) NewHandler(identity api.IdentityContext, opts api.HandlerOptions, interest *dp.ChaincodeInterest) (api.Handler, error) {
	s.Invocations++
	s.LastIdentity = identity
	s.LastOptions = opts
	s.LastInterest = interest
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Handler, nil
}

// MockHandler implements api.Handler
type MockHandler struct {
	Peers []api.Peer
	Err   error
}

// Endorsers returns the configured peers or error
func (h *MockHandler) Endorsers(ctx context.Context) ([]api.Peer, error) {
	if h.Err != nil {
		return nil, h.Err
	}
	return h.Peers, nil
}

// MockTransactionClient implements api.TransactionClient, recording the
// last dispatched request
type MockTransactionClient struct {
	SubmitPayload   []byte
	EvaluatePayload []byte
	Err             error
	LastRequest     *api.TransactionRequest
}

// Submit records the request and returns the configured payload
func (c *MockTransactionClient) Submit(ctx context.Context, request *api.TransactionRequest) ([]byte, error) {
	c.LastRequest = request
	if c.Err != nil {
		return nil, c.Err
	}
	return c.SubmitPayload, nil
}

// Evaluate records the request and returns the configured payload
func (c *MockTransactionClient) Evaluate(ctx context.Context, request *api.TransactionRequest) ([]byte, error) {
	c.LastRequest = request
	if c.Err != nil {
		return nil, c.Err
	}
	return c.EvaluatePayload, nil
}

// MockIdentity implements api.IdentityContext
type MockIdentity struct {
	MSP           string
	IdentityBytes []byte
	Signature     []byte
	SignErr       error
	SignedMsgs    [][]byte
}

// MSPID returns the MSP ID
func (i *MockIdentity) MSPID() string {
	return i.MSP
}

// Identity returns the serialized identity
func (i *MockIdentity) Identity() []byte {
	return i.IdentityBytes
}

// Sign records msg and returns the configured signature
func (i *MockIdentity) Sign(msg []byte) ([]byte, error) {
	i.SignedMsgs = append(i.SignedMsgs, msg)
	if i.SignErr != nil {
		return nil, i.SignErr
	}
	return i.Signature, nil
}
