/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package resolver

import (
	"fmt"
	"testing"
	"time"

	dp "github.com/hyperledger/fabric-protos-go/discovery"
	"github.com/securekey/fabric-txnrouter/txnrouter/api"
	"github.com/securekey/fabric-txnrouter/txnrouter/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedEndorsement struct {
	interest *dp.ChaincodeInterest
}

func (e *fixedEndorsement) BuildProposalInterest() *dp.ChaincodeInterest {
	return e.interest
}

func TestResolveNoDiscovery(t *testing.T) {
	network := mocks.NewMockNetwork()

	service, scope := Resolve(nil, network)
	assert.Nil(t, service)
	assert.Equal(t, NoDiscovery, scope)
}

func TestResolveNetworkScoped(t *testing.T) {
	network := mocks.NewMockNetwork()
	networkService := &mocks.MockDiscoveryService{}
	network.Discovery = networkService

	service, scope := Resolve(nil, network)
	assert.Equal(t, NetworkScoped, scope)
	assert.Equal(t, api.DiscoveryService(networkService), service)
}

func TestResolveContractTakesPrecedence(t *testing.T) {
	network := mocks.NewMockNetwork()
	network.Discovery = &mocks.MockDiscoveryService{}
	contractService := &mocks.MockDiscoveryService{}

	service, scope := Resolve(contractService, network)
	assert.Equal(t, ContractScoped, scope)
	assert.Equal(t, api.DiscoveryService(contractService), service)
}

func TestHandlerNoDiscovery(t *testing.T) {
	network := mocks.NewMockNetwork()

	handler, scope, err := New(network).Handler(nil, &fixedEndorsement{})
	require.NoError(t, err)
	assert.Nil(t, handler)
	assert.Equal(t, NoDiscovery, scope)
}

func TestHandlerParameters(t *testing.T) {
	network := mocks.NewMockNetwork()
	network.GatewayOptions = &api.GatewayOptions{
		EventHandler: api.EventHandlerOptions{CommitTimeout: time.Minute},
		Discovery:    api.DiscoveryOptions{Enabled: true, AsLocalhost: true},
	}
	service := &mocks.MockDiscoveryService{Handler: &mocks.MockHandler{}}
	network.Discovery = service

	interest := &dp.ChaincodeInterest{Chaincodes: []*dp.ChaincodeCall{{Name: "mycc"}}}
	handler, scope, err := New(network).Handler(nil, &fixedEndorsement{interest: interest})
	require.NoError(t, err)
	require.NotNil(t, handler)
	assert.Equal(t, NetworkScoped, scope)

	assert.Equal(t, 1, service.Invocations)
	assert.Equal(t, network.Identity, service.LastIdentity)
	assert.True(t, service.LastOptions.AsLocalhost)
	assert.Equal(t, time.Minute, service.LastOptions.EventHandler.CommitTimeout)
	assert.Equal(t, interest, service.LastInterest)
}

func TestHandlerServiceFailurePropagates(t *testing.T) {
	network := mocks.NewMockNetwork()
	serviceErr := fmt.Errorf("discovery unavailable")
	network.Discovery = &mocks.MockDiscoveryService{Err: serviceErr}

	handler, scope, err := New(network).Handler(nil, &fixedEndorsement{})
	assert.Nil(t, handler)
	assert.Equal(t, NetworkScoped, scope)
	// collaborator failures are returned unchanged
	assert.Equal(t, serviceErr, err)
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "none", NoDiscovery.String())
	assert.Equal(t, "contract", ContractScoped.String())
	assert.Equal(t, "network", NetworkScoped.String())
}
