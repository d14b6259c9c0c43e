/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package interest

import (
	"github.com/golang/protobuf/proto"
	dp "github.com/hyperledger/fabric-protos-go/discovery"
	"github.com/securekey/fabric-txnrouter/util/errors"
)

// Set is an ordered collection of chaincode calls scoped to one contract,
// with at most one entry per chaincode name. Insertion order is preserved
// since discovery services treat earlier interests as higher priority for
// peer selection.
//
// Set is not safe for concurrent use. It is expected to have a single
// writer per contract instance.
type Set struct {
	chaincodeID string
	collections []string
	calls       []*dp.ChaincodeCall
	seeded      bool
}

// New returns a Set for the given chaincode. The default interest record
// is not allocated until the set is first read or written.
func New(chaincodeID string, collections []string) *Set {
	s := &Set{chaincodeID: chaincodeID}
	if len(collections) > 0 {
		s.collections = append(s.collections, collections...)
	}
	return s
}

// Add merges the given call into the set. A call whose Name matches an
// existing entry replaces that entry in place; otherwise the call is
// appended. The set is left untouched on validation failure.
func (s *Set) Add(call *dp.ChaincodeCall) errors.Error {
	if call == nil || call.Name == "" {
		return errors.New(errors.ValidationError, "interest must have a name")
	}

	s.ensureSeeded()

	call = clone(call)
	for i, existing := range s.calls {
		if existing.Name == call.Name {
			s.calls[i] = call
			return nil
		}
	}
	s.calls = append(s.calls, call)
	return nil
}

// Interests returns the ordered interest sequence. The returned calls are
// copies; mutating them does not affect the set.
func (s *Set) Interests() []*dp.ChaincodeCall {
	s.ensureSeeded()

	calls := make([]*dp.ChaincodeCall, len(s.calls))
	for i, call := range s.calls {
		calls[i] = clone(call)
	}
	return calls
}

// BuildInterest assembles the set into the interest submitted with a
// discovery query.
func (s *Set) BuildInterest() *dp.ChaincodeInterest {
	return &dp.ChaincodeInterest{Chaincodes: s.Interests()}
}

// Contains reports whether the set has an entry for the given chaincode
func (s *Set) Contains(name string) bool {
	s.ensureSeeded()

	for _, call := range s.calls {
		if call.Name == name {
			return true
		}
	}
	return false
}

func (s *Set) ensureSeeded() {
	if s.seeded {
		return
	}
	call := &dp.ChaincodeCall{Name: s.chaincodeID}
	if len(s.collections) > 0 {
		call.CollectionNames = append(call.CollectionNames, s.collections...)
	}
	s.calls = append(s.calls, call)
	s.seeded = true
}

func clone(call *dp.ChaincodeCall) *dp.ChaincodeCall {
	return proto.Clone(call).(*dp.ChaincodeCall)
}
