package message

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"hushpost/internal/domain"
	"hushpost/internal/protocol/agreement"
	"hushpost/internal/protocol/path"
	"hushpost/internal/protocol/record"
	"hushpost/internal/protocol/reconcile"
)

// Service is the write and read path for conversations.
//
// Writes seal one record and PUT it under the conversation directory in
// the local party's own homeserver namespace; reads run the reconciler
// over both parties' namespaces. Conversation keys are derived on first
// use and cached in memory only, keyed by counterpart; the cache is
// dropped on sign-out.
type Service struct {
	ids    domain.IdentityService
	client domain.HomeserverClient
	logger *zap.Logger

	mu       sync.Mutex
	keyCache map[domain.Ed25519Public]agreement.Keys
}

// New constructs a message service reading and writing through client.
func New(ids domain.IdentityService, client domain.HomeserverClient, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ids:      ids,
		client:   client,
		logger:   logger,
		keyCache: make(map[domain.Ed25519Public]agreement.Keys),
	}
}

// DropKeyCache wipes and clears every cached conversation key. Wired to
// the identity service's sign-out hook.
func (s *Service) DropKeyCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for peer, keys := range s.keyCache {
		keys.Wipe()
		delete(s.keyCache, peer)
	}
}

// Send encrypts, signs, and stores one message for recipient, returning
// the record as written. Records are written only to the local party's
// own namespace; the recipient finds them by reading our side.
func (s *Service) Send(ctx context.Context, recipient domain.Ed25519Public, plaintext []byte) (domain.Record, error) {
	id, ok := s.ids.Current()
	if !ok {
		return domain.Record{}, domain.ErrNotSignedIn
	}
	keys, err := s.conversationKeys(id, recipient)
	if err != nil {
		return domain.Record{}, err
	}

	rec, err := record.Seal(id, keys, plaintext)
	if err != nil {
		return domain.Record{}, fmt.Errorf("seal record: %w", err)
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return domain.Record{}, err
	}

	p := path.NewRecordPath(path.Dir(keys))
	if err := s.client.Put(ctx, id.EdPub, p, body); err != nil {
		return domain.Record{}, err
	}
	s.logger.Debug("record stored",
		zap.String("path", p),
		zap.Int64("timestamp", rec.Timestamp))
	return rec, nil
}

// GetConversation returns the ordered projection of the conversation with
// counterpart. One unreachable side degrades to a partial projection;
// only both sides failing returns ErrConversationUnavailable, in which
// case callers should keep whatever they last displayed.
func (s *Service) GetConversation(ctx context.Context, counterpart domain.Ed25519Public) ([]domain.ChatMessage, error) {
	id, ok := s.ids.Current()
	if !ok {
		return nil, domain.ErrNotSignedIn
	}
	keys, err := s.conversationKeys(id, counterpart)
	if err != nil {
		return nil, err
	}
	return reconcile.New(s.client, s.logger).Conversation(ctx, id, counterpart, keys)
}

// GetNewMessages returns, across the given counterparts, every record not
// yet covered by that counterpart's cursor, ordered by timestamp then
// nonce. Cursor bookkeeping is the caller's: feed the coordinates of the
// last returned message back in on the next poll.
//
// A counterpart whose conversation is entirely unavailable is skipped
// rather than failing the poll.
func (s *Service) GetNewMessages(
	ctx context.Context,
	counterparts []domain.Ed25519Public,
	since map[domain.Ed25519Public]domain.Cursor,
) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, peer := range counterparts {
		msgs, err := s.GetConversation(ctx, peer)
		if err != nil {
			if errors.Is(err, domain.ErrConversationUnavailable) {
				s.logger.Warn("skipping unavailable conversation", zap.String("peer", peer.Hex()), zap.Error(err))
				continue
			}
			return nil, err
		}
		cur, hasCur := since[peer]
		for _, m := range msgs {
			if hasCur && !cur.Before(m.Timestamp, m.Nonce) {
				continue
			}
			out = append(out, m)
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

// conversationKeys returns the cached key set for peer, deriving it on
// first use.
func (s *Service) conversationKeys(id domain.Identity, peer domain.Ed25519Public) (agreement.Keys, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keys, ok := s.keyCache[peer]; ok {
		return keys, nil
	}
	keys, err := agreement.DeriveConversationKeys(id.XPriv, peer)
	if err != nil {
		return agreement.Keys{}, err
	}
	s.keyCache[peer] = keys
	return keys, nil
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
