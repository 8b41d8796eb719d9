package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"hushpost/internal/domain"
	"hushpost/internal/protocol/agreement"
	"hushpost/internal/protocol/path"
	"hushpost/internal/protocol/record"
)

// Reconciler rebuilds a conversation from the two record sets the
// participants have independently written to their own homeservers.
//
// Its output is a pure function of what the two fetches return, so
// concurrent runs for the same conversation are safe and simply produce
// independent projections.
type Reconciler struct {
	client domain.HomeserverClient
	logger *zap.Logger
}

// New returns a Reconciler reading through the given client.
func New(client domain.HomeserverClient, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{client: client, logger: logger}
}

// Conversation fetches, decrypts, verifies, deduplicates, and orders the
// records of one conversation.
//
// The two sides are fetched concurrently and fail independently: one
// unreachable homeserver degrades the result to the surviving side's
// records, and only when both fetches fail does the call return
// ErrConversationUnavailable. Records that fail AEAD authentication are
// dropped silently; records with bad signatures are kept and flagged.
func (r *Reconciler) Conversation(
	ctx context.Context,
	local domain.Identity,
	counterpart domain.Ed25519Public,
	keys agreement.Keys,
) ([]domain.ChatMessage, error) {
	dir := path.Dir(keys)

	type side struct {
		owner domain.Ed25519Public
		recs  []domain.Record
		err   error
	}
	sides := [2]side{{owner: local.EdPub}, {owner: counterpart}}

	var wg sync.WaitGroup
	for i := range sides {
		wg.Add(1)
		go func(s *side) {
			defer wg.Done()
			s.recs, s.err = r.fetchSide(ctx, s.owner, dir)
		}(&sides[i])
	}
	wg.Wait()

	if sides[0].err != nil && sides[1].err != nil {
		return nil, fmt.Errorf("%w: %v; %v", domain.ErrConversationUnavailable, sides[0].err, sides[1].err)
	}
	for _, s := range sides {
		if s.err != nil {
			r.logger.Warn("one conversation side unreachable; returning partial projection",
				zap.String("owner", s.owner.Hex()),
				zap.Error(s.err))
		}
	}

	type dedupKey struct {
		ts    int64
		nonce string
	}
	seen := make(map[dedupKey]struct{})
	var out []domain.ChatMessage

	for _, s := range sides {
		for _, rec := range s.recs {
			dec, err := record.Open(rec, keys)
			if err != nil {
				// Not ours or tampered; drop and continue.
				r.logger.Debug("dropping undecryptable record", zap.Error(err))
				continue
			}
			k := dedupKey{ts: rec.Timestamp, nonce: string(rec.Nonce)}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}

			out = append(out, domain.ChatMessage{
				Sender:    dec.Sender,
				Content:   string(dec.Plaintext),
				Timestamp: rec.Timestamp,
				Nonce:     rec.Nonce,
				IsOwn:     dec.Sender == local.EdPub,
				Verified:  dec.Verified,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return bytes.Compare(out[i].Nonce, out[j].Nonce) < 0
	})
	return out, nil
}

// fetchSide lists one party's conversation directory and pulls each raw
// record. Individual objects that vanish between List and Get, or that do
// not parse as records, are skipped rather than failing the side.
func (r *Reconciler) fetchSide(ctx context.Context, owner domain.Ed25519Public, dir string) ([]domain.Record, error) {
	paths, err := r.client.List(ctx, owner, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", domain.ErrStorageUnavailable, owner.Hex(), err)
	}

	recs := make([]domain.Record, 0, len(paths))
	for _, p := range paths {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, ctx.Err())
		}
		body, err := r.client.Get(ctx, owner, p)
		if err != nil {
			r.logger.Debug("skipping unfetchable record", zap.String("path", p), zap.Error(err))
			continue
		}
		var rec domain.Record
		if err := json.Unmarshal(body, &rec); err != nil {
			r.logger.Debug("skipping malformed record", zap.String("path", p), zap.Error(err))
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
