/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package discovery

import (
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/golang/protobuf/proto"
	dp "github.com/hyperledger/fabric-protos-go/discovery"
	"github.com/hyperledger/fabric-protos-go/gossip"
	"github.com/hyperledger/fabric-protos-go/msp"
	"github.com/securekey/fabric-txnrouter/txnrouter/api"
	"github.com/securekey/fabric-txnrouter/txnrouter/mocks"
	"github.com/securekey/fabric-txnrouter/util/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func TestNewServiceValidation(t *testing.T) {
	dial := func() (*grpc.ClientConn, error) { return nil, nil }

	_, err := New("", dial)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channelID")

	_, err = New("mychannel", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dialer")
}

func TestNewHandlerValidation(t *testing.T) {
	service, err := New("mychannel", func() (*grpc.ClientConn, error) { return nil, nil })
	require.NoError(t, err)

	_, err = service.NewHandler(&mocks.MockIdentity{}, api.HandlerOptions{}, nil)
	require.Error(t, err)

	_, err = service.NewHandler(&mocks.MockIdentity{}, api.HandlerOptions{}, &dp.ChaincodeInterest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chaincode")
}

func TestEndorsersDialFailurePropagates(t *testing.T) {
	dialErr := fmt.Errorf("connection refused")
	service, err := New("mychannel", func() (*grpc.ClientConn, error) { return nil, dialErr })
	require.NoError(t, err)

	handler, err := service.NewHandler(&mocks.MockIdentity{}, api.HandlerOptions{}, ccInterest("mycc"))
	require.NoError(t, err)

	_, err = handler.Endorsers(context.Background())
	assert.Equal(t, dialErr, err)
}

func TestEndorsersQuery(t *testing.T) {
	descriptor := &dp.EndorsementDescriptor{
		Chaincode: "mycc",
		EndorsersByGroups: map[string]*dp.Peers{
			"G0": {Peers: []*dp.Peer{
				discoveredPeer(t, "peer0.org1:7051", "Org1MSP", 10),
			}},
		},
		Layouts: []*dp.Layout{{QuantitiesByGroup: map[string]uint32{"G0": 1}}},
	}
	server := &fakeDiscoveryServer{response: ccResponse(descriptor)}

	identity := &mocks.MockIdentity{MSP: "Org1MSP", IdentityBytes: []byte("creator"), Signature: []byte("sig")}
	handler := newTestHandler(t, server, identity, api.HandlerOptions{})

	endorsers, err := handler.Endorsers(context.Background())
	require.NoError(t, err)
	require.Len(t, endorsers, 1)
	assert.Equal(t, "peer0.org1:7051", endorsers[0].URL())
	assert.Equal(t, "Org1MSP", endorsers[0].MSPID())

	// the query was signed and carried the channel, identity and interest
	require.NotNil(t, server.lastRequest)
	assert.Equal(t, []byte("sig"), server.lastRequest.Signature)

	sent := &dp.Request{}
	require.NoError(t, proto.Unmarshal(server.lastRequest.Payload, sent))
	assert.Equal(t, []byte("creator"), sent.Authentication.ClientIdentity)
	require.Len(t, sent.Queries, 1)
	assert.Equal(t, "mychannel", sent.Queries[0].Channel)
	interests := sent.Queries[0].GetCcQuery().Interests
	require.Len(t, interests, 1)
	assert.Equal(t, "mycc", interests[0].Chaincodes[0].Name)
}

func TestEndorsersSelectsHighestPeers(t *testing.T) {
	descriptor := &dp.EndorsementDescriptor{
		Chaincode: "mycc",
		EndorsersByGroups: map[string]*dp.Peers{
			"G0": {Peers: []*dp.Peer{
				discoveredPeer(t, "peer0.org1:7051", "Org1MSP", 5),
				discoveredPeer(t, "peer1.org1:7051", "Org1MSP", 20),
				discoveredPeer(t, "peer2.org1:7051", "Org1MSP", 10),
			}},
		},
		Layouts: []*dp.Layout{{QuantitiesByGroup: map[string]uint32{"G0": 2}}},
	}
	server := &fakeDiscoveryServer{response: ccResponse(descriptor)}
	handler := newTestHandler(t, server, &mocks.MockIdentity{}, api.HandlerOptions{})

	endorsers, err := handler.Endorsers(context.Background())
	require.NoError(t, err)
	require.Len(t, endorsers, 2)
	assert.Equal(t, "peer1.org1:7051", endorsers[0].URL())
	assert.Equal(t, "peer2.org1:7051", endorsers[1].URL())
}

func TestEndorsersAsLocalhost(t *testing.T) {
	descriptor := &dp.EndorsementDescriptor{
		Chaincode: "mycc",
		EndorsersByGroups: map[string]*dp.Peers{
			"G0": {Peers: []*dp.Peer{
				discoveredPeer(t, "peer0.org1:7051", "Org1MSP", 1),
			}},
		},
		Layouts: []*dp.Layout{{QuantitiesByGroup: map[string]uint32{"G0": 1}}},
	}
	server := &fakeDiscoveryServer{response: ccResponse(descriptor)}
	handler := newTestHandler(t, server, &mocks.MockIdentity{}, api.HandlerOptions{AsLocalhost: true})

	endorsers, err := handler.Endorsers(context.Background())
	require.NoError(t, err)
	require.Len(t, endorsers, 1)
	assert.Equal(t, "localhost:7051", endorsers[0].URL())
}

func TestEndorsersQueryError(t *testing.T) {
	response := &dp.Response{Results: []*dp.QueryResult{{
		Result: &dp.QueryResult_Error{Error: &dp.Error{Content: "access denied"}},
	}}}
	server := &fakeDiscoveryServer{response: response}
	handler := newTestHandler(t, server, &mocks.MockIdentity{}, api.HandlerOptions{})

	_, err := handler.Endorsers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")

	codedErr, ok := errors.GetError(err)
	require.True(t, ok)
	assert.Equal(t, errors.DiscoveryError, codedErr.ErrorCode())
}

func TestEndorsersNoLayouts(t *testing.T) {
	descriptor := &dp.EndorsementDescriptor{Chaincode: "mycc"}
	server := &fakeDiscoveryServer{response: ccResponse(descriptor)}
	handler := newTestHandler(t, server, &mocks.MockIdentity{}, api.HandlerOptions{})

	_, err := handler.Endorsers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layouts")
}

func TestEndorsersSignFailurePropagates(t *testing.T) {
	signErr := fmt.Errorf("key unavailable")
	identity := &mocks.MockIdentity{SignErr: signErr}
	server := &fakeDiscoveryServer{}
	handler := newTestHandler(t, server, identity, api.HandlerOptions{})

	_, err := handler.Endorsers(context.Background())
	assert.Equal(t, signErr, err)
}

func TestToLocalhost(t *testing.T) {
	assert.Equal(t, "localhost:7051", toLocalhost("peer0.org1.example.com:7051"))
	assert.Equal(t, "no-port", toLocalhost("no-port"))
}

type fakeDiscoveryServer struct {
	dp.UnimplementedDiscoveryServer
	response    *dp.Response
	lastRequest *dp.SignedRequest
}

func (s *fakeDiscoveryServer) Discover(ctx context.Context, request *dp.SignedRequest) (*dp.Response, error) {
	s.lastRequest = request
	return s.response, nil
}

func newTestHandler(t *testing.T, server *fakeDiscoveryServer, identity api.IdentityContext, opts api.HandlerOptions) api.Handler {
	listener := bufconn.Listen(1024 * 1024)
	grpcServer := grpc.NewServer()
	dp.RegisterDiscoveryServer(grpcServer, server)
	go func() {
		_ = grpcServer.Serve(listener)
	}()
	t.Cleanup(grpcServer.Stop)

	dial := func() (*grpc.ClientConn, error) {
		return grpc.DialContext(context.Background(), "bufnet",
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return listener.DialContext(ctx)
			}),
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
	}

	service, err := New("mychannel", dial)
	require.NoError(t, err)
	handler, err := service.NewHandler(identity, opts, ccInterest("mycc"))
	require.NoError(t, err)
	return handler
}

func ccInterest(chaincodeID string) *dp.ChaincodeInterest {
	return &dp.ChaincodeInterest{Chaincodes: []*dp.ChaincodeCall{{Name: chaincodeID}}}
}

func ccResponse(descriptor *dp.EndorsementDescriptor) *dp.Response {
	return &dp.Response{Results: []*dp.QueryResult{{
		Result: &dp.QueryResult_CcQueryRes{
			CcQueryRes: &dp.ChaincodeQueryResult{Content: []*dp.EndorsementDescriptor{descriptor}},
		},
	}}}
}

func discoveredPeer(t *testing.T, endpoint, mspID string, height uint64) *dp.Peer {
	stateInfo, err := proto.Marshal(&gossip.GossipMessage{
		Content: &gossip.GossipMessage_StateInfo{
			StateInfo: &gossip.StateInfo{Properties: &gossip.Properties{LedgerHeight: height}},
		},
	})
	require.NoError(t, err)

	membershipInfo, err := proto.Marshal(&gossip.GossipMessage{
		Content: &gossip.GossipMessage_AliveMsg{
			AliveMsg: &gossip.AliveMessage{Membership: &gossip.Member{Endpoint: endpoint}},
		},
	})
	require.NoError(t, err)

	identity, err := proto.Marshal(&msp.SerializedIdentity{Mspid: mspID})
	require.NoError(t, err)

	return &dp.Peer{
		StateInfo:      &gossip.Envelope{Payload: stateInfo},
		MembershipInfo: &gossip.Envelope{Payload: membershipInfo},
		Identity:       identity,
	}
}
