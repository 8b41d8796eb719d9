package reconcile_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"hushpost/internal/crypto"
	"hushpost/internal/domain"
	"hushpost/internal/homeserver"
	"hushpost/internal/protocol/agreement"
	"hushpost/internal/protocol/path"
	"hushpost/internal/protocol/record"
	"hushpost/internal/protocol/reconcile"
)

type fixture struct {
	alice, bob domain.Identity
	keys       agreement.Keys // derived from Alice's side; identical for Bob
	mem        *homeserver.Memory
	rec        *reconcile.Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	alice, err := crypto.IdentityFromSeed([32]byte{1})
	require.NoError(t, err)
	bob, err := crypto.IdentityFromSeed([32]byte{2})
	require.NoError(t, err)
	keys, err := agreement.DeriveConversationKeys(alice.XPriv, bob.EdPub)
	require.NoError(t, err)

	mem := homeserver.NewMemory()
	return &fixture{
		alice: alice,
		bob:   bob,
		keys:  keys,
		mem:   mem,
		rec:   reconcile.New(mem, nil),
	}
}

// write seals plaintext as sender at the given timestamp and stores it in
// the sender's own namespace, like the write path does.
func (f *fixture) write(t *testing.T, sender domain.Identity, plaintext string, ts int64) domain.Record {
	t.Helper()
	rec, err := record.SealAt(sender, f.keys, []byte(plaintext), ts)
	require.NoError(t, err)
	body, err := json.Marshal(rec)
	require.NoError(t, err)
	p := path.NewRecordPath(path.Dir(f.keys))
	require.NoError(t, f.mem.Put(context.Background(), sender.EdPub, p, body))
	return rec
}

func TestConversation_HelloBothPerspectives(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.alice, "hello", 1000)

	// Bob's read: one message, not his own, verified.
	bobView, err := f.rec.Conversation(context.Background(), f.bob, f.alice.EdPub, f.keys)
	require.NoError(t, err)
	require.Len(t, bobView, 1)
	require.Equal(t, "hello", bobView[0].Content)
	require.EqualValues(t, 1000, bobView[0].Timestamp)
	require.False(t, bobView[0].IsOwn)
	require.True(t, bobView[0].Verified)
	require.Equal(t, f.alice.EdPub, bobView[0].Sender)

	// Alice's read of the same conversation: same record, own message.
	aliceView, err := f.rec.Conversation(context.Background(), f.alice, f.bob.EdPub, f.keys)
	require.NoError(t, err)
	require.Len(t, aliceView, 1)
	require.Equal(t, "hello", aliceView[0].Content)
	require.True(t, aliceView[0].IsOwn)
}

func TestConversation_MergesAndOrdersBothSides(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.bob, "second", 2000)
	f.write(t, f.alice, "first", 1000)
	f.write(t, f.alice, "third", 3000)

	msgs, err := f.rec.Conversation(context.Background(), f.alice, f.bob.EdPub, f.keys)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, []string{"first", "second", "third"},
		[]string{msgs[0].Content, msgs[1].Content, msgs[2].Content})
	require.True(t, msgs[0].IsOwn)
	require.False(t, msgs[1].IsOwn)
}

func TestConversation_DeduplicatesRetransmits(t *testing.T) {
	f := newFixture(t)
	rec := f.write(t, f.alice, "once", 1000)

	// The same record stored again under a different object name, as a
	// retransmission would be.
	body, err := json.Marshal(rec)
	require.NoError(t, err)
	dup := path.NewRecordPath(path.Dir(f.keys))
	require.NoError(t, f.mem.Put(context.Background(), f.alice.EdPub, dup, body))

	msgs, err := f.rec.Conversation(context.Background(), f.bob, f.alice.EdPub, f.keys)
	require.NoError(t, err)
	require.Len(t, msgs, 1, "retransmitted record must not double the conversation")
}

func TestConversation_TimestampTiesBrokenByNonce(t *testing.T) {
	f := newFixture(t)
	a := f.write(t, f.alice, "a", 1000)
	b := f.write(t, f.alice, "b", 1000)

	msgs, err := f.rec.Conversation(context.Background(), f.alice, f.bob.EdPub, f.keys)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	// Determine expected order from the nonce bytes.
	first, second := "a", "b"
	if string(b.Nonce) < string(a.Nonce) {
		first, second = "b", "a"
	}
	require.Equal(t, first, msgs[0].Content)
	require.Equal(t, second, msgs[1].Content)
}

func TestConversation_DropsForeignRecords(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.alice, "ours", 1000)

	// A record for a different conversation landing in the same
	// directory must be dropped, not surfaced or fatal.
	carol, err := crypto.IdentityFromSeed([32]byte{3})
	require.NoError(t, err)
	foreignKeys, err := agreement.DeriveConversationKeys(carol.XPriv, f.alice.EdPub)
	require.NoError(t, err)
	foreign, err := record.SealAt(carol, foreignKeys, []byte("not ours"), 1500)
	require.NoError(t, err)
	body, err := json.Marshal(foreign)
	require.NoError(t, err)
	p := path.NewRecordPath(path.Dir(f.keys))
	require.NoError(t, f.mem.Put(context.Background(), f.alice.EdPub, p, body))

	msgs, err := f.rec.Conversation(context.Background(), f.bob, f.alice.EdPub, f.keys)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "ours", msgs[0].Content)
}

func TestConversation_TamperedSignatureFlagged(t *testing.T) {
	f := newFixture(t)
	rec, err := record.SealAt(f.alice, f.keys, []byte("shady"), 1000)
	require.NoError(t, err)
	rec.Signature[0] ^= 1
	body, err := json.Marshal(rec)
	require.NoError(t, err)
	p := path.NewRecordPath(path.Dir(f.keys))
	require.NoError(t, f.mem.Put(context.Background(), f.alice.EdPub, p, body))

	msgs, err := f.rec.Conversation(context.Background(), f.bob, f.alice.EdPub, f.keys)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "shady", msgs[0].Content)
	require.False(t, msgs[0].Verified)
}

func TestConversation_PartialAvailability(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.alice, "mine", 1000)
	f.write(t, f.bob, "theirs", 2000)

	// Bob's homeserver goes dark; Alice still sees her own side.
	f.mem.SetDown(f.bob.EdPub, true)

	msgs, err := f.rec.Conversation(context.Background(), f.alice, f.bob.EdPub, f.keys)
	require.NoError(t, err, "one unreachable side must degrade, not fail")
	require.Len(t, msgs, 1)
	require.Equal(t, "mine", msgs[0].Content)
}

func TestConversation_BothSidesDown(t *testing.T) {
	f := newFixture(t)
	f.mem.SetDown(f.alice.EdPub, true)
	f.mem.SetDown(f.bob.EdPub, true)

	_, err := f.rec.Conversation(context.Background(), f.alice, f.bob.EdPub, f.keys)
	require.ErrorIs(t, err, domain.ErrConversationUnavailable)
}

func TestConversation_MalformedObjectsSkipped(t *testing.T) {
	f := newFixture(t)
	f.write(t, f.alice, "good", 1000)
	require.NoError(t, f.mem.Put(context.Background(), f.alice.EdPub,
		path.Dir(f.keys)+"junk.json", []byte("{not json")))

	msgs, err := f.rec.Conversation(context.Background(), f.bob, f.alice.EdPub, f.keys)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}
