package routes

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"ghostledger/indexer"
)

type EventIndex interface {
	Query(ctx context.Context, f indexer.Filter) ([]indexer.Record, error)
}

type eventView struct {
	Seq        uint64            `json:"seq"`
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Module     string            `json:"module"`
	Contract   string            `json:"contract,omitempty"`
	Height     uint64            `json:"height"`
	Time       int64             `json:"time"`
	Attributes map[string]string `json:"attributes"`
}

type eventRoutes struct {
	index EventIndex
}

func (e eventRoutes) mount(r chi.Router) {
	r.Get("/", handle(e.query))
}

func (e eventRoutes) query(r *http.Request) (any, error) {
	q := r.URL.Query()
	f := indexer.Filter{
		Type:   strings.TrimSpace(q.Get("type")),
		Module: strings.TrimSpace(q.Get("module")),
	}
	if contract := strings.TrimSpace(q.Get("contract")); contract != "" {
		if !common.IsHexAddress(contract) {
			return nil, badRequest("contract: %q is not an address", contract)
		}
		f.Contract = common.HexToAddress(contract).Hex()
	}
	if after := q.Get("after"); after != "" {
		seq, err := strconv.ParseUint(after, 10, 64)
		if err != nil {
			return nil, badRequest("after: %q is not a sequence number", after)
		}
		f.AfterSeq = seq
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			return nil, badRequest("limit: %q is not a positive integer", limit)
		}
		f.Limit = n
	}
	records, err := e.index.Query(r.Context(), f)
	if err != nil {
		return nil, err
	}
	out := make([]eventView, 0, len(records))
	for _, rec := range records {
		attrs, err := rec.Attrs()
		if err != nil {
			return nil, err
		}
		out = append(out, eventView{
			Seq:        rec.Seq,
			ID:         rec.ID,
			Type:       rec.Type,
			Module:     rec.Module,
			Contract:   rec.Contract,
			Height:     rec.Height,
			Time:       rec.Time,
			Attributes: attrs,
		})
	}
	return map[string][]eventView{"events": out}, nil
}
