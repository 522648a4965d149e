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

// Package hashagent runs one round of snapshot hash agreement: ask every
// other node for its hash of a given snapshot along with a signature share
// over it, find the hash backed by more than two thirds of the network, and
// prove the agreement by recovering the aggregate threshold signature from
// the shares. An agent is built per round and holds the outcome afterwards.
package hashagent

import (
	"context"
	"math/big"

	"code.denebprotocol.io/deneb/crypto/bls"
	"code.denebprotocol.io/deneb/logging"
	"code.denebprotocol.io/deneb/metrics"
	"code.denebprotocol.io/deneb/nodeclient"
	"code.denebprotocol.io/deneb/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrShareVerification marks a collected signature share that doesn't verify
// against the public key share its sender reported. Unlike an unreachable
// peer, a forged share means a misbehaving node, and the round is aborted.
var ErrShareVerification = errors.New("signature share verification failed")

// PeerClient is the slice of the peer protocol the agent needs.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/peer_client_mock.go -package mocks code.denebprotocol.io/deneb/hashagent PeerClient
type PeerClient interface {
	SnapshotSignature(ctx context.Context, endpoint string, block uint64) (nodeclient.SignatureReply, error)
	NodeInfo(ctx context.Context, endpoint string) (nodeclient.NodeInfoReply, error)
}

// ThresholdScheme is the signature algebra the voting logic runs on.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/threshold_scheme_mock.go -package mocks code.denebprotocol.io/deneb/hashagent ThresholdScheme
type ThresholdScheme interface {
	Verify(hash common.Hash, sig *bn256.G1, pub *bn256.G2) bool
	LagrangeCoeffs(indices []int) ([]*big.Int, error)
	RecoverSignature(shares []*bn256.G1, coeffs []*big.Int) (*bn256.G1, error)
}

// vote is one peer's decoded answer.
type vote struct {
	hash     common.Hash
	share    *bn256.G1
	pubShare *bn256.G2
}

type Agent struct {
	Config

	log       *logging.Logger
	client    PeerClient
	scheme    ThresholdScheme
	network   types.Network
	commonKey *bn256.G2

	// votes holds one slot per node ordinal. Peers that failed or answered
	// garbage stay nil, the self slot always does.
	votes []*vote

	votedHash common.Hash
	aggregate *bn256.G1
	agreeing  []int
	done      bool
}

func New(log *logging.Logger, cfg Config, client PeerClient, scheme ThresholdScheme, network types.Network) (*Agent, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	if err := network.Validate(); err != nil {
		return nil, err
	}
	commonKey, err := bls.PublicKeyFromParts(network.CommonPublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't parse the network's common public key")
	}

	return &Agent{
		Config:    cfg,
		log:       log,
		client:    client,
		scheme:    scheme,
		network:   network,
		commonKey: commonKey,
	}, nil
}

// NodesToDownloadFrom drives the agreement round for the snapshot at the
// given block. It returns the endpoints of the peers whose hash won the
// vote, an empty slice when no hash gathered more than two thirds of the
// network or the recovered aggregate didn't hold, and an error on hard
// faults only.
func (a *Agent) NodesToDownloadFrom(ctx context.Context, block uint64) ([]string, error) {
	if err := a.collect(ctx, block); err != nil {
		metrics.HashRoundInc("failed")
		return nil, err
	}

	agreed, err := a.voteForHash()
	if err != nil {
		metrics.HashRoundInc("failed")
		return nil, errors.Wrapf(err, "block %d", block)
	}
	if !agreed {
		a.log.Warn("no agreement on the snapshot hash", logging.BlockNumber(block))
		metrics.HashRoundInc("negative")
		return []string{}, nil
	}

	endpoints := make([]string, 0, len(a.agreeing))
	for _, ordinal := range a.agreeing {
		endpoints = append(endpoints, a.network.Nodes[ordinal].Endpoint())
	}

	a.log.Info("agreed on the snapshot hash",
		logging.BlockNumber(block),
		logging.Hash(a.votedHash),
		logging.Strings("endpoints", endpoints),
	)
	metrics.HashRoundInc("agreed")
	return endpoints, nil
}

// VotedHash returns the agreed hash and the aggregate signature proving it.
// Calling it without a successful round behind it is a programming error.
func (a *Agent) VotedHash() (common.Hash, *bn256.G1) {
	if !a.done || a.votedHash == (common.Hash{}) || a.aggregate == nil || bls.IsIdentity(a.aggregate) {
		a.log.Panic("voted hash queried without a successful agreement round")
	}
	return a.votedHash, a.aggregate
}

func (a *Agent) collect(ctx context.Context, block uint64) error {
	a.votes = make([]*vote, len(a.network.Nodes))

	limit := a.MaxWorkers
	if limit < 1 {
		limit = 1
	}

	g := errgroup.Group{}
	g.SetLimit(limit)
	for i, node := range a.network.Nodes {
		if node.ID == a.network.SelfID {
			continue
		}
		g.Go(func() error {
			// Every task writes its own slot, nothing is shared.
			a.votes[i] = a.collectFromPeer(ctx, node, block)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

func (a *Agent) collectFromPeer(ctx context.Context, node types.NodeInfo, block uint64) *vote {
	ctx, cancel := context.WithTimeout(ctx, a.CollectTimeout.Get())
	defer cancel()

	endpoint := node.Endpoint()

	sigReply, err := a.client.SnapshotSignature(ctx, endpoint, block)
	if err != nil {
		a.peerFailure(node, "couldn't collect the peer's signature", err)
		return nil
	}
	infoReply, err := a.client.NodeInfo(ctx, endpoint)
	if err != nil {
		a.peerFailure(node, "couldn't collect the peer's key material", err)
		return nil
	}

	raw := common.FromHex(sigReply.Hash)
	if len(raw) != common.HashLength {
		a.peerFailure(node, "peer reported a malformed snapshot hash", nil)
		return nil
	}
	hash := common.BytesToHash(raw)
	if hash == (common.Hash{}) {
		a.peerFailure(node, "peer reported a zero snapshot hash", nil)
		return nil
	}

	share, err := bls.SignatureFromCoords(sigReply.SignatureShareX, sigReply.SignatureShareY)
	if err != nil {
		a.peerFailure(node, "peer reported a malformed signature share", err)
		return nil
	}
	pubShare, err := bls.PublicKeyFromParts(infoReply.PublicKeyParts())
	if err != nil {
		a.peerFailure(node, "peer reported a malformed public key share", err)
		return nil
	}

	return &vote{hash: hash, share: share, pubShare: pubShare}
}

func (a *Agent) peerFailure(node types.NodeInfo, reason string, err error) {
	a.log.Warn(reason,
		logging.Uint64("node-id", node.ID),
		logging.String("endpoint", node.Endpoint()),
		logging.Error(err),
	)
	metrics.PeerCollectFailureInc()
}

// voteForHash verifies the collected shares, tallies the hashes, and on a
// two-thirds winner recovers and checks the aggregate signature. A false
// return is a negative round, an error a hard fault.
func (a *Agent) voteForHash() (bool, error) {
	for i, v := range a.votes {
		if v == nil {
			continue
		}
		if !a.scheme.Verify(v.hash, v.share, v.pubShare) {
			return false, errors.Wrapf(ErrShareVerification, "node %d", a.network.Nodes[i].ID)
		}
	}

	counts := map[common.Hash]int{}
	for _, v := range a.votes {
		if v != nil {
			counts[v.hash]++
		}
	}

	// The quorum is over the whole network, the self slot included. At most
	// one hash can clear it.
	n := len(a.network.Nodes)
	winner := common.Hash{}
	found := false
	for hash, k := range counts {
		if 3*k > 2*n {
			winner = hash
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	agreeing := []int{}
	indices := []int{}
	shares := []*bn256.G1{}
	for i, v := range a.votes {
		if v == nil || v.hash != winner {
			continue
		}
		agreeing = append(agreeing, i)
		indices = append(indices, i+1)
		shares = append(shares, v.share)
	}

	coeffs, err := a.scheme.LagrangeCoeffs(indices)
	if err != nil {
		return false, errors.Wrap(err, "couldn't compute the interpolation coefficients")
	}
	aggregate, err := a.scheme.RecoverSignature(shares, coeffs)
	if err != nil {
		return false, errors.Wrap(err, "couldn't recover the aggregate signature")
	}

	if !a.scheme.Verify(winner, aggregate, a.commonKey) {
		a.log.Warn("recovered aggregate signature doesn't hold against the common public key",
			logging.Hash(winner),
		)
		return false, nil
	}

	a.votedHash = winner
	a.aggregate = aggregate
	a.agreeing = agreeing
	a.done = true
	return true, nil
}
