package vesting

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// VoteKind names the privileged action a vote authorises.
type VoteKind uint8

const (
	VoteWithdrawFee VoteKind = 0
	VoteSetFee      VoteKind = 3
)

func (k VoteKind) String() string {
	switch k {
	case VoteWithdrawFee:
		return "withdrawFee"
	case VoteSetFee:
		return "setFee"
	default:
		return "unsupported"
	}
}

func (k VoteKind) supported() bool { return k == VoteWithdrawFee || k == VoteSetFee }

// VoteStatus is the lifecycle of one (kind, target, value) tuple.
type VoteStatus uint8

const (
	VoteNone VoteStatus = iota
	VoteRequested
	VoteVoting
	VoteApproved
	VoteConsumed
)

func (s VoteStatus) String() string {
	switch s {
	case VoteRequested:
		return "requested"
	case VoteVoting:
		return "voting"
	case VoteApproved:
		return "approved"
	case VoteConsumed:
		return "consumed"
	default:
		return "none"
	}
}

// VoteOutcome is the state of a vote as reported by IsVoteDone and
// VoteStatusOf.
type VoteOutcome struct {
	Status    VoteStatus
	Votes     uint64
	Threshold uint64
}

// Approved reports whether the vote can be executed.
func (o VoteOutcome) Approved() bool { return o.Status == VoteApproved }

// Remaining is the number of approvals still needed. Zero means the vote
// can be executed.
func (o VoteOutcome) Remaining() uint64 {
	if o.Status == VoteApproved {
		return 0
	}
	if o.Status == VoteNone || o.Status == VoteConsumed {
		return o.Threshold
	}
	if o.Votes >= o.Threshold {
		return 0
	}
	return o.Threshold - o.Votes
}

type voteRecord struct {
	Kind      uint8
	Target    common.Address
	Value     *big.Int
	Proposer  common.Address
	Approvals []common.Address
	Status    uint8
}

func (r *voteRecord) approvedBy(voter common.Address) bool {
	for _, a := range r.Approvals {
		if a == voter {
			return true
		}
	}
	return false
}

func (r *voteRecord) settle(threshold uint64) {
	switch n := uint64(len(r.Approvals)); {
	case n >= threshold:
		r.Status = uint8(VoteApproved)
	case n > 1:
		r.Status = uint8(VoteVoting)
	default:
		r.Status = uint8(VoteRequested)
	}
}

func voteKey(kind VoteKind, target common.Address, value *big.Int) ([]byte, error) {
	if value == nil || value.Sign() < 0 || value.BitLen() > 256 {
		return nil, ErrInvalidVoteValue
	}
	key := append([]byte("vesting/vote/"), byte(kind))
	key = append(key, target.Bytes()...)
	return append(key, value.FillBytes(make([]byte, 32))...), nil
}

func (e *Engine) loadVote(kind VoteKind, target common.Address, value *big.Int) (*voteRecord, []byte, error) {
	key, err := voteKey(kind, target, value)
	if err != nil {
		return nil, nil, err
	}
	var r voteRecord
	ok, err := e.state.KVGet(key, &r)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, key, nil
	}
	return &r, key, nil
}

func (e *Engine) outcome(r *voteRecord) VoteOutcome {
	if r == nil {
		return VoteOutcome{Status: VoteNone, Threshold: e.threshold}
	}
	return VoteOutcome{
		Status:    VoteStatus(r.Status),
		Votes:     uint64(len(r.Approvals)),
		Threshold: e.threshold,
	}
}

func (e *Engine) checkVote(caller common.Address, kind VoteKind) error {
	if !e.IsVoter(caller) {
		return ErrNotVoter
	}
	if !kind.supported() {
		return ErrUnsupportedVoteKind
	}
	return nil
}

// RequestVote opens a vote on (kind, target, value) with the caller as the
// first approval. Requesting an open vote adds the caller's approval if it
// is missing; requesting a consumed one starts a new round.
func (e *Engine) RequestVote(caller common.Address, kind VoteKind, target common.Address, value *big.Int) error {
	return e.atomic("requestVote", func() error {
		if err := e.checkVote(caller, kind); err != nil {
			return err
		}
		r, key, err := e.loadVote(kind, target, value)
		if err != nil {
			return err
		}
		if r == nil || VoteStatus(r.Status) == VoteConsumed {
			r = &voteRecord{
				Kind:     uint8(kind),
				Target:   target,
				Value:    new(big.Int).Set(value),
				Proposer: caller,
			}
		}
		if !r.approvedBy(caller) {
			r.Approvals = append(r.Approvals, caller)
		}
		r.settle(e.threshold)
		if err := e.state.KVPut(key, r); err != nil {
			return err
		}
		e.emit(NewVoteRequestedEvent(e.address, caller, target, value, kind))
		return nil
	})
}

// Vote approves the open vote on (kind, target, value) requested by
// proposer.
func (e *Engine) Vote(caller common.Address, kind VoteKind, proposer, target common.Address, value *big.Int) error {
	return e.atomic("vote", func() error {
		if err := e.checkVote(caller, kind); err != nil {
			return err
		}
		r, key, err := e.loadVote(kind, target, value)
		if err != nil {
			return err
		}
		if r == nil || VoteStatus(r.Status) == VoteConsumed || r.Proposer != proposer {
			return ErrVoteNotFound
		}
		if r.approvedBy(caller) {
			return ErrAlreadyVoted
		}
		r.Approvals = append(r.Approvals, caller)
		r.settle(e.threshold)
		if err := e.state.KVPut(key, r); err != nil {
			return err
		}
		e.emit(NewVotedEvent(e.address, caller, proposer, target, value, kind))
		return nil
	})
}

// IsVoteDone reports how many approvals the vote still needs and emits a
// VoteState event. It does not change the vote.
func (e *Engine) IsVoteDone(caller common.Address, kind VoteKind, target common.Address, value *big.Int) (uint64, error) {
	var remaining uint64
	err := e.atomic("isVoteDone", func() error {
		if err := e.checkVote(caller, kind); err != nil {
			return err
		}
		r, _, err := e.loadVote(kind, target, value)
		if err != nil {
			return err
		}
		out := e.outcome(r)
		remaining = out.Remaining()
		e.emit(NewVoteStateEvent(e.address, caller, target, value, kind, out))
		return nil
	})
	return remaining, err
}

// VoteStatusOf is the read-only form of IsVoteDone.
func (e *Engine) VoteStatusOf(kind VoteKind, target common.Address, value *big.Int) (VoteOutcome, error) {
	if e == nil || e.state == nil {
		return VoteOutcome{}, errNilState
	}
	r, _, err := e.loadVote(kind, target, value)
	if err != nil {
		return VoteOutcome{}, err
	}
	return e.outcome(r), nil
}

// consume marks an approved vote as used. Anything else fails with
// ErrVoteNotSuccessful.
func (e *Engine) consume(kind VoteKind, target common.Address, value *big.Int) error {
	r, key, err := e.loadVote(kind, target, value)
	if err != nil {
		return err
	}
	if r == nil || VoteStatus(r.Status) != VoteApproved {
		return ErrVoteNotSuccessful
	}
	r.Status = uint8(VoteConsumed)
	return e.state.KVPut(key, r)
}

// SetVaultFee applies an approved (VoteSetFee, zero address, value) vote.
func (e *Engine) SetVaultFee(caller common.Address, value *big.Int) error {
	return e.atomic("setVaultFee", func() error {
		if !e.IsVoter(caller) {
			return ErrNotVoter
		}
		if value == nil || value.Sign() < 0 {
			return ErrInvalidVoteValue
		}
		if value.Cmp(e.maxFee) > 0 {
			return ErrFeeTooHigh
		}
		if err := e.consume(VoteSetFee, common.Address{}, value); err != nil {
			return err
		}
		if err := e.state.KVPut(feeKey, value); err != nil {
			return err
		}
		e.emit(NewFeeUpdatedEvent(e.address, caller, value))
		return nil
	})
}

// WithdrawVaultFee sends every collected fee to `to` under an approved
// (VoteWithdrawFee, to, 0) vote.
func (e *Engine) WithdrawVaultFee(caller, to common.Address) (*big.Int, error) {
	var amount *big.Int
	err := e.atomic("withdrawVaultFee", func() error {
		if !e.IsVoter(caller) {
			return ErrNotVoter
		}
		if err := e.consume(VoteWithdrawFee, to, big.NewInt(0)); err != nil {
			return err
		}
		bal, err := e.tokens.NativeBalance(e.address)
		if err != nil {
			return err
		}
		if bal.Sign() > 0 {
			if err := e.tokens.TransferNative(e.address, to, bal); err != nil {
				return err
			}
		}
		e.emit(NewFeeWithdrawEvent(e.address, caller, to, bal))
		amount = bal
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.observeFees()
	return amount, nil
}
