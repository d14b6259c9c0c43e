/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package contract

import (
	"context"

	dp "github.com/hyperledger/fabric-protos-go/discovery"
	"github.com/securekey/fabric-txnrouter/txnrouter/api"
)

// Transaction is a handle for one named transaction of a contract. It is a
// thin wrapper: the routing handler is resolved at execution time and the
// dispatch itself is delegated to the network's transactor.
type Transaction struct {
	contract *Contract
	name     string
}

// Name returns the qualified transaction name
func (t *Transaction) Name() string {
	return t.name
}

// BuildProposalInterest returns the chaincodes and collections this
// transaction's proposal touches, seeded from the contract's discovery
// interests
func (t *Transaction) BuildProposalInterest() *dp.ChaincodeInterest {
	return t.contract.interests.BuildInterest()
}

// Submit endorses and commits the transaction with the given arguments,
// returning the payload produced by the chaincode
func (t *Transaction) Submit(ctx context.Context, args ...string) ([]byte, error) {
	handler, err := t.contract.DiscoveryHandler(t)
	if err != nil {
		return nil, err
	}
	t.contract.metrics.SubmitCounter.With("chaincode", t.contract.chaincodeID).Add(1)
	return t.contract.network.Transactor().Submit(ctx, t.newRequest(handler, args))
}

// Evaluate runs the transaction with the given arguments on a single peer
// without committing, returning the payload produced by the chaincode
func (t *Transaction) Evaluate(ctx context.Context, args ...string) ([]byte, error) {
	handler, err := t.contract.DiscoveryHandler(t)
	if err != nil {
		return nil, err
	}
	t.contract.metrics.EvaluateCounter.With("chaincode", t.contract.chaincodeID).Add(1)
	return t.contract.network.Transactor().Evaluate(ctx, t.newRequest(handler, args))
}

func (t *Transaction) newRequest(handler api.Handler, args []string) *api.TransactionRequest {
	byteArgs := make([][]byte, len(args))
	for i, arg := range args {
		byteArgs[i] = []byte(arg)
	}
	return &api.TransactionRequest{
		ChaincodeID: t.contract.chaincodeID,
		Name:        t.name,
		Args:        byteArgs,
		Handler:     handler,
	}
}
