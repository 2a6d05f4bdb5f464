package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignBytes(t *testing.T) {
	bz := []byte("foobar")
	bz2 := []byte("blast")

	chainID := "test-sign-bytes"
	c1, err := BuildSignBytes(bz, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, bz, c1)

	// make sure sign bytes change on payload, chain_id and seq
	ct, err := BuildSignBytes(bz2, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, ct)
	c2, err := BuildSignBytes(bz, chainID+"2", 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	c3, err := BuildSignBytes(bz, chainID, 18)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	_, err = BuildSignBytes(bz, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(bz, "x", 1)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	perm := pub.Condition()

	chainID := "emo-music-2345"
	bz := []byte("my special valentine")

	sig0, err := Sign(priv, bz, chainID, 0)
	require.Nil(t, err)
	sig1, err := Sign(priv, bz, chainID, 1)
	require.Nil(t, err)
	sig2, err := Sign(priv, bz, chainID, 2)
	require.Nil(t, err)
	sig13, err := Sign(priv, bz, chainID, 13)
	require.Nil(t, err)
	empty := new(StdSignature)

	// signing should be deterministic
	sig2a, err := Sign(priv, bz, chainID, 2)
	require.Nil(t, err)
	assert.Equal(t, sig2, sig2a)

	// the first one must have a signature in the store
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// empty sig
	_, err = VerifySignature(kv, empty, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// must start with 0
	sign, err := VerifySignature(kv, sig0, bz, chainID)
	assert.NoError(t, err)
	assert.Equal(t, perm, sign)
	assert.Equal(t, int64(1), NextNonce(kv, pub.Address()))
	// we can advance one (store in kvstore)
	sign, err = VerifySignature(kv, sig1, bz, chainID)
	assert.NoError(t, err)
	assert.Equal(t, perm, sign)

	// jumping and replays are a no-no
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = VerifySignature(kv, sig13, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// different chain doesn't match
	_, err = VerifySignature(kv, sig2, bz, "metal-chain")
	assert.True(t, errors.ErrUnauthorized.Is(err))
	// doesn't match on bad sig
	copy(sig2.Signature.Ed25519, []byte{42, 17, 99})
	_, err = VerifySignature(kv, sig2, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestVerifySignatures(t *testing.T) {
	kv := store.MemStore()

	priv := crypto.GenPrivKeyEd25519()
	addr := priv.PublicKey().Condition()
	priv2 := crypto.GenPrivKeyEd25519()
	addr2 := priv2.PublicKey().Condition()

	chainID := "hot_summer_days"
	bz := []byte("ice cream")

	sig, err := Sign(priv, bz, chainID, 0)
	require.NoError(t, err)
	sig1, err := Sign(priv, bz, chainID, 1)
	require.NoError(t, err)
	sig2, err := Sign(priv2, bz, chainID, 0)
	require.NoError(t, err)
	badSig, err := Sign(priv, []byte("other"), chainID, 0)
	require.NoError(t, err)

	// no signers
	signers, err := VerifySignatures(kv, bz, nil, chainID)
	assert.NoError(t, err)
	assert.Empty(t, signers)

	// bad signers
	_, err = VerifySignatures(kv, bz, []*StdSignature{badSig}, chainID)
	assert.Error(t, err)

	// some signers
	signers, err = VerifySignatures(kv, bz, []*StdSignature{sig}, chainID)
	assert.NoError(t, err)
	if assert.Equal(t, 1, len(signers)) {
		assert.Equal(t, addr, signers[0])
	}

	// replay is blocked
	_, err = VerifySignatures(kv, bz, []*StdSignature{sig, sig2}, chainID)
	assert.Error(t, err)

	// now increment seq and it passes
	signers, err = VerifySignatures(kv, bz, []*StdSignature{sig1, sig2}, chainID)
	assert.NoError(t, err)
	if assert.Equal(t, 2, len(signers)) {
		assert.Equal(t, addr, signers[0])
		assert.Equal(t, addr2, signers[1])
	}
}

func TestAuthorize(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	other := crypto.GenPrivKeyEd25519()
	chainID := "custody-chain"
	payload := []byte("release 1")

	ctx := custody.WithChainID(context.Background(), chainID)
	sig, err := Sign(priv, payload, chainID, 0)
	require.NoError(t, err)

	var auth x.Authenticator = Authenticate{}
	assert.Empty(t, auth.GetConditions(ctx))

	ctx, err = Authorize(ctx, kv, payload, []*StdSignature{sig})
	require.NoError(t, err)
	assert.True(t, auth.HasAddress(ctx, priv.PublicKey().Address()))
	assert.False(t, auth.HasAddress(ctx, other.PublicKey().Address()))
	assert.Equal(t, priv.PublicKey().Condition(), x.MainSigner(ctx, auth))
}

func TestUserDataSequence(t *testing.T) {
	u := &UserData{Pubkey: []byte("key"), Sequence: maxSequenceValue}
	assert.True(t, errors.ErrOverflow.Is(u.CheckAndIncrementSequence(maxSequenceValue)))
	assert.True(t, ErrInvalidSequence.Is((&UserData{Sequence: 3}).Validate()))
	assert.True(t, ErrInvalidSequence.Is((&UserData{Sequence: -1}).Validate()))

	raw, err := u.Marshal()
	require.NoError(t, err)
	var got UserData
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, *u, got)
}
