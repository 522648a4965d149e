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

// Package nodeclient speaks the snapshot JSON-RPC protocol to the other
// nodes of the network: signature and key material for hash agreement, and
// fragment-wise download of assembled snapshot diffs.
package nodeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"code.denebprotocol.io/deneb/libs/jsonrpc"
	"code.denebprotocol.io/deneb/logging"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	methodSnapshotSignature = "getSnapshotSignature"
	methodNodeInfo          = "getNodeInfo"
	methodSnapshotDiffSize  = "getSnapshotDiffSize"
	methodDownloadFragment  = "downloadSnapshotFragment"
)

// SignatureReply is a peer's signed opinion on a snapshot hash. The share
// coordinates are decimal field elements.
type SignatureReply struct {
	Hash            string `json:"hash"`
	SignatureShareX string `json:"signatureShareX"`
	SignatureShareY string `json:"signatureShareY"`
}

// NodeInfoReply carries a peer's public key share as the usual four decimal
// strings.
type NodeInfoReply struct {
	PublicKeyShare0 string `json:"publicKeyShare0"`
	PublicKeyShare1 string `json:"publicKeyShare1"`
	PublicKeyShare2 string `json:"publicKeyShare2"`
	PublicKeyShare3 string `json:"publicKeyShare3"`
}

// PublicKeyParts regroups the share fields for the key codec.
func (r NodeInfoReply) PublicKeyParts() [4]string {
	return [4]string{r.PublicKeyShare0, r.PublicKeyShare1, r.PublicKeyShare2, r.PublicKeyShare3}
}

// FragmentReply is one slice of an assembled diff. Data travels base64
// encoded on the wire.
type FragmentReply struct {
	Data []byte `json:"data"`
	Size uint64 `json:"size"`
}

type diffSizeReply struct {
	Size uint64 `json:"size"`
}

type blockParams struct {
	BlockNumber uint64 `json:"blockNumber"`
}

type fragmentParams struct {
	BlockNumber uint64 `json:"blockNumber"`
	From        uint64 `json:"from"`
	Size        uint64 `json:"size"`
}

// Client is the HTTP JSON-RPC 2.0 client used against peer nodes. One client
// serves any number of endpoints.
type Client struct {
	log  *logging.Logger
	cfg  Config
	http *http.Client
}

func NewClient(log *logging.Logger, cfg Config) *Client {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Client{
		log: log,
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.RequestTimeout.Get(),
		},
	}
}

// Call posts one request and decodes the result into reply. A reply of nil
// discards the result.
func (c *Client) Call(ctx context.Context, endpoint, method string, params jsonrpc.Params, reply interface{}) error {
	req := jsonrpc.NewRequest(uuid.NewString(), method, params)

	body, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(err, "couldn't encode the request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "couldn't build the HTTP request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return errors.Wrapf(err, "couldn't reach %s", endpoint)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return errors.Errorf("%s answered with status %s", endpoint, httpResp.Status)
	}

	resp := jsonrpc.Response{}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return errors.Wrapf(err, "couldn't decode the response from %s", endpoint)
	}
	if err := resp.Check(); err != nil {
		return err
	}
	if resp.ID != req.ID {
		return errors.Errorf("%s answered with mismatched request id %q", endpoint, resp.ID)
	}

	if reply == nil {
		return nil
	}
	if len(resp.Result) == 0 {
		return errors.Errorf("%s answered without a result", endpoint)
	}
	if err := json.Unmarshal(resp.Result, reply); err != nil {
		return errors.Wrap(err, "couldn't decode the result")
	}
	return nil
}

// SnapshotSignature asks a peer for its hash of the snapshot at the given
// block, along with its signature share over that hash.
func (c *Client) SnapshotSignature(ctx context.Context, endpoint string, block uint64) (SignatureReply, error) {
	reply := SignatureReply{}
	if err := c.Call(ctx, endpoint, methodSnapshotSignature, blockParams{BlockNumber: block}, &reply); err != nil {
		return SignatureReply{}, errors.Wrapf(err, "couldn't call %s", methodSnapshotSignature)
	}
	return reply, nil
}

// NodeInfo asks a peer for its public key share.
func (c *Client) NodeInfo(ctx context.Context, endpoint string) (NodeInfoReply, error) {
	reply := NodeInfoReply{}
	if err := c.Call(ctx, endpoint, methodNodeInfo, nil, &reply); err != nil {
		return NodeInfoReply{}, errors.Wrapf(err, "couldn't call %s", methodNodeInfo)
	}
	return reply, nil
}

// SnapshotDiffSize asks a peer how large its assembled diff for the given
// block is.
func (c *Client) SnapshotDiffSize(ctx context.Context, endpoint string, block uint64) (uint64, error) {
	reply := diffSizeReply{}
	if err := c.Call(ctx, endpoint, methodSnapshotDiffSize, blockParams{BlockNumber: block}, &reply); err != nil {
		return 0, errors.Wrapf(err, "couldn't call %s", methodSnapshotDiffSize)
	}
	return reply.Size, nil
}

// DownloadFragment fetches size bytes of the peer's assembled diff starting
// at the given offset.
func (c *Client) DownloadFragment(ctx context.Context, endpoint string, block, from, size uint64) (FragmentReply, error) {
	reply := FragmentReply{}
	params := fragmentParams{BlockNumber: block, From: from, Size: size}
	if err := c.Call(ctx, endpoint, methodDownloadFragment, params, &reply); err != nil {
		return FragmentReply{}, errors.Wrapf(err, "couldn't call %s", methodDownloadFragment)
	}
	return reply, nil
}
