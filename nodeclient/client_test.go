// Copyright (C) 2024 Deneb Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package nodeclient_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"code.denebprotocol.io/deneb/libs/jsonrpc"
	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/nodeclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	t.Run("Calls the signature method", testCallsSignatureMethod)
	t.Run("Calls the node info method", testCallsNodeInfoMethod)
	t.Run("Calls the diff size method", testCallsDiffSizeMethod)
	t.Run("Downloads a fragment", testDownloadsFragment)
	t.Run("Surfaces RPC errors", testSurfacesRPCErrors)
	t.Run("Rejects non-OK HTTP answers", testRejectsNonOKHTTPAnswers)
	t.Run("Rejects malformed responses", testRejectsMalformedResponses)
	t.Run("Honours the context", testHonoursContext)
}

func newTestClient(t *testing.T) *nodeclient.Client {
	t.Helper()
	return nodeclient.NewClient(logging.NewTestLogger(), nodeclient.NewDefaultConfig())
}

// rpcHandler answers one decoded request with a result or an RPC error.
type rpcHandler func(t *testing.T, req jsonrpc.Request) (interface{}, *jsonrpc.ErrorDetails)

func newFakePeer(t *testing.T, handler rpcHandler) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		req := jsonrpc.Request{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NoError(t, req.Check())
		require.False(t, req.IsNotification())

		resp := jsonrpc.Response{Version: jsonrpc.VERSION2, ID: req.ID}
		result, rpcErr := handler(t, req)
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			raw, err := json.Marshal(result)
			require.NoError(t, err)
			resp.Result = raw
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// decodeParams re-marshals the loosely typed request params into the given
// struct, the way the serving side would.
func decodeParams(t *testing.T, req jsonrpc.Request, into interface{}) {
	t.Helper()
	raw, err := json.Marshal(req.Params)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, into))
}

func testCallsSignatureMethod(t *testing.T) {
	peer := newFakePeer(t, func(t *testing.T, req jsonrpc.Request) (interface{}, *jsonrpc.ErrorDetails) {
		require.Equal(t, "getSnapshotSignature", req.Method)

		params := struct {
			BlockNumber uint64 `json:"blockNumber"`
		}{}
		decodeParams(t, req, &params)
		require.Equal(t, uint64(12), params.BlockNumber)

		return nodeclient.SignatureReply{
			Hash:            "0x0101",
			SignatureShareX: "314",
			SignatureShareY: "159",
		}, nil
	})

	reply, err := newTestClient(t).SnapshotSignature(context.Background(), peer.URL, 12)
	require.NoError(t, err)
	assert.Equal(t, "0x0101", reply.Hash)
	assert.Equal(t, "314", reply.SignatureShareX)
	assert.Equal(t, "159", reply.SignatureShareY)
}

func testCallsNodeInfoMethod(t *testing.T) {
	peer := newFakePeer(t, func(t *testing.T, req jsonrpc.Request) (interface{}, *jsonrpc.ErrorDetails) {
		require.Equal(t, "getNodeInfo", req.Method)
		return nodeclient.NodeInfoReply{
			PublicKeyShare0: "1",
			PublicKeyShare1: "2",
			PublicKeyShare2: "3",
			PublicKeyShare3: "4",
		}, nil
	})

	reply, err := newTestClient(t).NodeInfo(context.Background(), peer.URL)
	require.NoError(t, err)
	assert.Equal(t, [4]string{"1", "2", "3", "4"}, reply.PublicKeyParts())
}

func testCallsDiffSizeMethod(t *testing.T) {
	peer := newFakePeer(t, func(t *testing.T, req jsonrpc.Request) (interface{}, *jsonrpc.ErrorDetails) {
		require.Equal(t, "getSnapshotDiffSize", req.Method)

		params := struct {
			BlockNumber uint64 `json:"blockNumber"`
		}{}
		decodeParams(t, req, &params)
		require.Equal(t, uint64(42), params.BlockNumber)

		return map[string]uint64{"size": 123456}, nil
	})

	size, err := newTestClient(t).SnapshotDiffSize(context.Background(), peer.URL, 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(123456), size)
}

func testDownloadsFragment(t *testing.T) {
	peer := newFakePeer(t, func(t *testing.T, req jsonrpc.Request) (interface{}, *jsonrpc.ErrorDetails) {
		require.Equal(t, "downloadSnapshotFragment", req.Method)

		params := struct {
			BlockNumber uint64 `json:"blockNumber"`
			From        uint64 `json:"from"`
			Size        uint64 `json:"size"`
		}{}
		decodeParams(t, req, &params)
		require.Equal(t, uint64(42), params.BlockNumber)
		require.Equal(t, uint64(1024), params.From)
		require.Equal(t, uint64(5), params.Size)

		return nodeclient.FragmentReply{Data: []byte("chunk"), Size: 5}, nil
	})

	fragment, err := newTestClient(t).DownloadFragment(context.Background(), peer.URL, 42, 1024, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("chunk"), fragment.Data)
	assert.Equal(t, uint64(5), fragment.Size)
}

func testSurfacesRPCErrors(t *testing.T) {
	peer := newFakePeer(t, func(t *testing.T, req jsonrpc.Request) (interface{}, *jsonrpc.ErrorDetails) {
		return nil, &jsonrpc.ErrorDetails{
			Code:    jsonrpc.ErrorCodeMethodNotFound,
			Message: "method not found",
		}
	})

	_, err := newTestClient(t).SnapshotDiffSize(context.Background(), peer.URL, 42)
	require.Error(t, err)

	details := &jsonrpc.ErrorDetails{}
	require.ErrorAs(t, err, &details)
	assert.Equal(t, jsonrpc.ErrorCodeMethodNotFound, details.Code)
	assert.Equal(t, "method not found", details.Message)
}

func testRejectsNonOKHTTPAnswers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "on fire", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(t).NodeInfo(context.Background(), srv.URL)
	require.ErrorContains(t, err, "answered with status")
}

func testRejectsMalformedResponses(t *testing.T) {
	mismatched := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":"bogus","result":{}}`)
	}))
	t.Cleanup(mismatched.Close)

	_, err := newTestClient(t).NodeInfo(context.Background(), mismatched.URL)
	require.ErrorContains(t, err, "mismatched request id")

	resultless := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := jsonrpc.Request{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%q}`, req.ID)
	}))
	t.Cleanup(resultless.Close)

	_, err = newTestClient(t).NodeInfo(context.Background(), resultless.URL)
	require.ErrorContains(t, err, "without a result")
}

func testHonoursContext(t *testing.T) {
	peer := newFakePeer(t, func(t *testing.T, req jsonrpc.Request) (interface{}, *jsonrpc.ErrorDetails) {
		return nodeclient.NodeInfoReply{}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t).NodeInfo(ctx, peer.URL)
	require.Error(t, err)
}
