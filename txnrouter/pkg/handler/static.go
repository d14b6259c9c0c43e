/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package handler

import (
	"context"
	"math/rand"

	"github.com/securekey/fabric-txnrouter/txnrouter/api"
	"github.com/securekey/fabric-txnrouter/util/errors"
)

// Static is a routing handler over a fixed set of endorsing peers. It is
// the routing used when no discovery service is configured.
type Static struct {
	peers     []api.Peer
	exclusion ExclusionFilter
	shuffle   bool
}

// Option configures a Static handler
type Option func(s *Static)

// WithExclusion filters out peers using application-specific logic
func WithExclusion(filter ExclusionFilter) Option {
	return func(s *Static) {
		s.exclusion = filter
	}
}

// WithShuffle randomizes the order of the returned peers to spread load
// across the fixed targets
func WithShuffle() Option {
	return func(s *Static) {
		s.shuffle = true
	}
}

// NewStatic returns a handler over the given fixed targets
func NewStatic(peers []api.Peer, opts ...Option) (*Static, error) {
	if len(peers) == 0 {
		return nil, errors.New(errors.MissingRequiredParameterError, "at least one target peer is required")
	}
	s := &Static{peers: peers, exclusion: NoExclusion}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Endorsers returns the fixed targets, filtered and optionally shuffled
func (s *Static) Endorsers(ctx context.Context) ([]api.Peer, error) {
	var peers []api.Peer
	for _, peer := range s.peers {
		if !s.exclusion.Exclude(peer) {
			peers = append(peers, peer)
		}
	}
	if s.shuffle {
		rand.Shuffle(len(peers), func(i, j int) {
			peers[i], peers[j] = peers[j], peers[i]
		})
	}
	return peers, nil
}

// Peer is a statically configured endorsing peer
type Peer struct {
	url   string
	mspID string
}

// NewPeer returns a static peer with the given endpoint and MSP ID
func NewPeer(url, mspID string) *Peer {
	return &Peer{url: url, mspID: mspID}
}

// URL returns the peer's endpoint
func (p *Peer) URL() string {
	return p.url
}

// MSPID returns the peer's MSP ID
func (p *Peer) MSPID() string {
	return p.mspID
}
