/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package handler

import (
	"github.com/securekey/fabric-txnrouter/txnrouter/api"
)

// ExclusionFilter returns true if the given peer is not to be considered
// when selecting endorsers
type ExclusionFilter interface {
	// Exclude returns whether the given peer is to be excluded or not
	Exclude(peer api.Peer) bool
}

type selectionFunc func(peer api.Peer) bool

func (f selectionFunc) Exclude(peer api.Peer) bool {
	return f(peer)
}

// NoExclusion accepts all peers and rejects no peers
var NoExclusion = selectionFunc(func(api.Peer) bool {
	return false
})

// ExcludeHosts returns an ExclusionFilter that excludes the given endpoints
func ExcludeHosts(endpoints ...string) ExclusionFilter {
	excluded := make(map[string]struct{})
	for _, endpoint := range endpoints {
		excluded[endpoint] = struct{}{}
	}
	return selectionFunc(func(peer api.Peer) bool {
		_, ok := excluded[peer.URL()]
		return ok
	})
}

// ExcludeMSPs returns an ExclusionFilter that excludes peers belonging to
// the given MSPs
func ExcludeMSPs(mspIDs ...string) ExclusionFilter {
	excluded := make(map[string]struct{})
	for _, mspID := range mspIDs {
		excluded[mspID] = struct{}{}
	}
	return selectionFunc(func(peer api.Peer) bool {
		_, ok := excluded[peer.MSPID()]
		return ok
	})
}
