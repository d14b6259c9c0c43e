/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package discovery

import (
	"context"
	"net"
	"sort"

	"github.com/golang/protobuf/proto"
	dp "github.com/hyperledger/fabric-protos-go/discovery"
	"github.com/hyperledger/fabric-protos-go/gossip"
	"github.com/hyperledger/fabric-protos-go/msp"
	"github.com/hyperledger/fabric-sdk-go/pkg/common/logging"
	"github.com/securekey/fabric-txnrouter/txnrouter/api"
	"github.com/securekey/fabric-txnrouter/util/errors"
	"google.golang.org/grpc"
)

var logger = logging.NewLogger("txnrouter")

// Dialer connects to the peer's discovery endpoint
type Dialer func() (*grpc.ClientConn, error)

// Service is a discovery service backed by a peer's discovery endpoint.
// It implements api.DiscoveryService. Connections are established per
// query and closed when the query completes.
type Service struct {
	channelID string
	dial      Dialer
}

// New returns a Service that queries the discovery endpoint reached by
// dial for endorsers on the given channel
func New(channelID string, dial Dialer) (*Service, error) {
	if channelID == "" {
		return nil, errors.New(errors.MissingRequiredParameterError, "channelID is required")
	}
	if dial == nil {
		return nil, errors.New(errors.MissingRequiredParameterError, "dialer is required")
	}
	return &Service{channelID: channelID, dial: dial}, nil
}

// NewHandler returns a routing handler that runs an endorser query for the
// given interest when invoked by the dispatch machinery
func (s *Service) NewHandler(identity api.IdentityContext, opts api.HandlerOptions, interest *dp.ChaincodeInterest) (api.Handler, error) {
	if interest == nil || len(interest.Chaincodes) == 0 {
		return nil, errors.New(errors.ValidationError, "proposal interest must name at least one chaincode")
	}
	return &endorserQueryHandler{
		channelID: s.channelID,
		dial:      s.dial,
		identity:  identity,
		opts:      opts,
		interest:  interest,
	}, nil
}

type endorserQueryHandler struct {
	channelID string
	dial      Dialer
	identity  api.IdentityContext
	opts      api.HandlerOptions
	interest  *dp.ChaincodeInterest
}

// Endorsers queries the discovery endpoint and returns a set of peers that
// satisfies the endorsement policy for the handler's interest
func (h *endorserQueryHandler) Endorsers(ctx context.Context) ([]api.Peer, error) {
	conn, err := h.dial()
	if err != nil {
		return nil, err
	}
	defer func() {
		if e := conn.Close(); e != nil {
			logger.Warnf("Error closing discovery connection: %s", e)
		}
	}()

	request := &dp.Request{
		Authentication: &dp.AuthInfo{ClientIdentity: h.identity.Identity()},
		Queries: []*dp.Query{{
			Channel: h.channelID,
			Query: &dp.Query_CcQuery{
				CcQuery: &dp.ChaincodeQuery{Interests: []*dp.ChaincodeInterest{h.interest}},
			},
		}},
	}

	payload, err := proto.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(errors.SystemError, err, "error marshaling discovery request")
	}
	signature, err := h.identity.Sign(payload)
	if err != nil {
		return nil, err
	}

	response, err := dp.NewDiscoveryClient(conn).Discover(ctx, &dp.SignedRequest{Payload: payload, Signature: signature})
	if err != nil {
		return nil, err
	}

	descriptor, err := endorsementDescriptor(response)
	if err != nil {
		return nil, err
	}

	return h.selectEndorsers(descriptor)
}

func endorsementDescriptor(response *dp.Response) (*dp.EndorsementDescriptor, error) {
	if len(response.Results) == 0 {
		return nil, errors.New(errors.DiscoveryError, "empty discovery response")
	}
	result := response.Results[0]
	if e := result.GetError(); e != nil {
		return nil, errors.Errorf(errors.DiscoveryError, "discovery query failed: %s", e.Content)
	}
	ccResult := result.GetCcQueryRes()
	if ccResult == nil || len(ccResult.Content) == 0 {
		return nil, errors.New(errors.DiscoveryError, "discovery response has no endorsement descriptor")
	}
	return ccResult.Content[0], nil
}

// selectEndorsers picks peers according to the first layout of the
// endorsement descriptor, preferring peers with the highest ledger height
// within each group.
func (h *endorserQueryHandler) selectEndorsers(descriptor *dp.EndorsementDescriptor) ([]api.Peer, error) {
	if len(descriptor.Layouts) == 0 {
		return nil, errors.Errorf(errors.DiscoveryError, "no endorsement layouts for chaincode [%s]", descriptor.Chaincode)
	}

	var selected []*endorserPeer
	for group, quantity := range descriptor.Layouts[0].QuantitiesByGroup {
		groupResult := descriptor.EndorsersByGroups[group]
		if groupResult == nil || len(groupResult.Peers) < int(quantity) {
			return nil, errors.Errorf(errors.DiscoveryError, "not enough peers in group [%s] for chaincode [%s]", group, descriptor.Chaincode)
		}

		groupPeers := make([]*endorserPeer, 0, len(groupResult.Peers))
		for _, peer := range groupResult.Peers {
			parsed, err := parsePeer(peer)
			if err != nil {
				return nil, err
			}
			groupPeers = append(groupPeers, parsed)
		}
		sortByHeight(groupPeers)

		selected = append(selected, groupPeers[:quantity]...)
	}
	sortByHeight(selected)

	endorsers := make([]api.Peer, len(selected))
	for i, peer := range selected {
		if h.opts.AsLocalhost {
			peer.url = toLocalhost(peer.url)
		}
		endorsers[i] = peer
	}

	logger.Debugf("Selected %d endorser(s) for chaincode [%s] on channel [%s]", len(endorsers), descriptor.Chaincode, h.channelID)
	return endorsers, nil
}

func parsePeer(peer *dp.Peer) (*endorserPeer, error) {
	if peer.StateInfo == nil || peer.MembershipInfo == nil {
		return nil, errors.New(errors.DiscoveryError, "discovered peer is missing state or membership info")
	}

	msg := &gossip.GossipMessage{}
	if err := proto.Unmarshal(peer.StateInfo.Payload, msg); err != nil {
		return nil, errors.Wrap(errors.DiscoveryError, err, "error unmarshaling peer state info")
	}
	stateInfo := msg.GetStateInfo()
	if stateInfo == nil || stateInfo.Properties == nil {
		return nil, errors.New(errors.DiscoveryError, "discovered peer has no ledger height")
	}
	height := stateInfo.Properties.LedgerHeight

	if err := proto.Unmarshal(peer.MembershipInfo.Payload, msg); err != nil {
		return nil, errors.Wrap(errors.DiscoveryError, err, "error unmarshaling peer membership info")
	}
	aliveMsg := msg.GetAliveMsg()
	if aliveMsg == nil || aliveMsg.Membership == nil {
		return nil, errors.New(errors.DiscoveryError, "discovered peer has no endpoint")
	}

	identity := &msp.SerializedIdentity{}
	if err := proto.Unmarshal(peer.Identity, identity); err != nil {
		return nil, errors.Wrap(errors.DiscoveryError, err, "error unmarshaling peer identity")
	}

	return &endorserPeer{
		url:    aliveMsg.Membership.Endpoint,
		mspID:  identity.Mspid,
		height: height,
	}, nil
}

func sortByHeight(peers []*endorserPeer) {
	sort.Slice(peers, func(i, j int) bool {
		return peers[i].height > peers[j].height
	})
}

// toLocalhost rewrites the host portion of the endpoint to localhost,
// keeping the port. Used when the client runs outside the network that
// published the discovered endpoints.
func toLocalhost(endpoint string) string {
	_, port, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint
	}
	return net.JoinHostPort("localhost", port)
}

type endorserPeer struct {
	url    string
	mspID  string
	height uint64
}

// URL returns the peer's endpoint
func (p *endorserPeer) URL() string {
	return p.url
}

// MSPID returns the peer's MSP ID
func (p *endorserPeer) MSPID() string {
	return p.mspID
}

// LedgerHeight returns the peer's ledger height at discovery time
func (p *endorserPeer) LedgerHeight() uint64 {
	return p.height
}
