package program

import (
	"context"
	"math/big"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/coin"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	contract *Contract
	bank     cash.BaseController
	db       store.CacheableKVStore
	token    custody.Address
	auth     *custodytest.CtxAuth

	admin, stranger custody.Condition
}

func newFixture(t testing.TB) *fixture {
	f := &fixture{
		bank:     cash.NewController(),
		db:       store.MemStore(),
		token:    custodytest.RandomAddr(t),
		auth:     &custodytest.CtxAuth{Key: "auth"},
		admin:    custodytest.NewCondition(),
		stranger: custodytest.NewCondition(),
	}
	f.contract = NewContract(f.auth, f.bank)
	require.NoError(t, f.bank.IssueCoins(f.db, f.token, f.admin.Address(), big.NewInt(1000)))
	require.NoError(t, f.bank.IssueCoins(f.db, f.token, f.stranger.Address(), big.NewInt(1000)))
	return f
}

func (f *fixture) as(programID string, signers ...custody.Condition) custody.Context {
	ctx := WithProgramID(context.Background(), programID)
	return f.auth.SetConditions(ctx, signers...)
}

func (f *fixture) balance(db custody.ReadOnlyKVStore, addr custody.Address) *big.Int {
	return f.bank.Balance(db, f.token, addr)
}

func TestConformance(t *testing.T) {
	custodytest.RunProgramConformance(t, func(t testing.TB) *custodytest.ProgramEnv {
		f := newFixture(t)
		const id = "hackathon-2019"
		asAdmin := f.as(id, f.admin)
		require.NoError(t, f.contract.InitProgram(asAdmin, f.db, id, f.admin.Address(), f.token))
		return &custodytest.ProgramEnv{
			Contract:     f.contract,
			DB:           f.db,
			ProgramID:    id,
			ProgramAdmin: f.admin.Address(),
			Token:        f.token,
			AsAdmin:      asAdmin,
			AsStranger:   f.as(id, f.stranger),
			Balance:      f.balance,
		}
	})
}

func TestInitProgram(t *testing.T) {
	f := newFixture(t)
	other := custodytest.NewCondition()

	cases := []struct {
		name    string
		ctx     custody.Context
		id      string
		admin   custody.Address
		wantErr *errors.Error
	}{
		{name: "empty id", ctx: f.as("", f.admin), id: "", admin: f.admin.Address(), wantErr: errors.ErrInvalidInput},
		{name: "id with spaces", ctx: f.as("", f.admin), id: "a b", admin: f.admin.Address(), wantErr: errors.ErrInvalidInput},
		{name: "admin did not sign", ctx: f.as("", f.stranger), id: "first", admin: f.admin.Address(), wantErr: errors.ErrUnauthorized},
		{name: "invalid admin", ctx: f.as("", f.admin), id: "first", admin: custody.Address("bad"), wantErr: errors.ErrInvalidInput},
		{name: "first program", ctx: f.as("", f.admin), id: "first", admin: f.admin.Address()},
		{name: "second program", ctx: f.as("", other), id: "second", admin: other.Address()},
		{name: "duplicate", ctx: f.as("", other), id: "first", admin: other.Address(), wantErr: errors.ErrAlreadyInitialized},
	}

	// cases share the store and must run in order
	for _, tc := range cases {
		err := f.contract.InitProgram(tc.ctx, f.db, tc.id, tc.admin, f.token)
		if tc.wantErr != nil {
			assert.True(t, tc.wantErr.Is(err), "%s: want %s, got %+v", tc.name, tc.wantErr, err)
		} else {
			assert.NoError(t, err, tc.name)
		}
	}

	assert.True(t, f.contract.ProgramExists(f.db, "first"))
	assert.True(t, f.contract.ProgramExists(f.db, "second"))
	assert.False(t, f.contract.ProgramExists(f.db, ""))

	// the first program admin became the contract admin
	assert.Equal(t, f.admin.Address(), f.contract.GetAdmin(f.db))

	p, err := f.contract.GetProgram(f.db, "first")
	require.NoError(t, err)
	assert.Equal(t, f.admin.Address(), p.Admin)
	assert.Equal(t, f.token, p.Token)
	assert.Equal(t, int64(0), p.GetBalance().Int64())
}

func TestOperationsWithoutProgram(t *testing.T) {
	f := newFixture(t)
	ctx := f.auth.SetConditions(context.Background(), f.admin)

	err := f.contract.LockProgramFunds(ctx, f.db, big.NewInt(1))
	assert.True(t, errors.ErrNotInitialized.Is(err))
	err = f.contract.SinglePayout(ctx, f.db, custodytest.RandomAddr(t), big.NewInt(1))
	assert.True(t, errors.ErrNotInitialized.Is(err))
	assert.Equal(t, int64(0), f.contract.GetRemainingBalance(ctx, f.db).Int64())

	// unknown program selected
	err = f.contract.LockProgramFunds(f.as("unknown", f.admin), f.db, big.NewInt(1))
	assert.True(t, errors.ErrNotInitialized.Is(err))

	// pause is not possible before any program made an admin
	err = f.contract.SetPaused(ctx, f.db, custody.PauseUpdate{Lock: custody.Set(true)})
	assert.True(t, errors.ErrNotInitialized.Is(err))
}

func TestProgramsAreIsolated(t *testing.T) {
	f := newFixture(t)
	asA := f.as("a", f.admin)
	asB := f.as("b", f.stranger)
	require.NoError(t, f.contract.InitProgram(asA, f.db, "a", f.admin.Address(), f.token))
	require.NoError(t, f.contract.InitProgram(asB, f.db, "b", f.stranger.Address(), f.token))

	require.NoError(t, f.contract.LockProgramFunds(asA, f.db, big.NewInt(100)))
	require.NoError(t, f.contract.LockProgramFunds(asB, f.db, big.NewInt(10)))

	// the admin of b cannot spend from a even with a large enough pool
	asBonA := f.as("a", f.stranger)
	err := f.contract.SinglePayout(asBonA, f.db, custodytest.RandomAddr(t), big.NewInt(5))
	assert.True(t, errors.ErrUnauthorized.Is(err))

	err = f.contract.SinglePayout(asB, f.db, custodytest.RandomAddr(t), big.NewInt(11))
	assert.True(t, errors.ErrInsufficientBalance.Is(err))

	assert.Equal(t, int64(100), f.contract.GetRemainingBalance(asA, f.db).Int64())
	assert.Equal(t, int64(10), f.contract.GetRemainingBalance(asB, f.db).Int64())
	assert.Equal(t, int64(100), f.balance(f.db, Condition("a").Address()).Int64())
	assert.Equal(t, int64(10), f.balance(f.db, Condition("b").Address()).Int64())
}

func TestBatchPayoutAccounting(t *testing.T) {
	f := newFixture(t)
	asAdmin := f.as("p", f.admin)
	require.NoError(t, f.contract.InitProgram(asAdmin, f.db, "p", f.admin.Address(), f.token))
	require.NoError(t, f.contract.LockProgramFunds(asAdmin, f.db, big.NewInt(500)))

	// funders other than the admin may lock funds
	asFunder := f.as("p", f.stranger)
	require.NoError(t, f.contract.LockProgramFunds(asFunder, f.db, big.NewInt(250)))
	assert.Equal(t, int64(750), f.balance(f.db, Condition("p").Address()).Int64())
	assert.Equal(t, int64(750), f.balance(f.db, f.stranger.Address()).Int64())

	r := custodytest.RandomAddr(t)
	// the same recipient may appear more than once
	err := f.contract.BatchPayout(asAdmin, f.db,
		[]custody.Address{r, r},
		[]*big.Int{big.NewInt(100), big.NewInt(200)})
	require.NoError(t, err)
	assert.Equal(t, int64(300), f.balance(f.db, r).Int64())

	// a single non positive amount rejects the whole batch
	err = f.contract.BatchPayout(asAdmin, f.db,
		[]custody.Address{r, r},
		[]*big.Int{big.NewInt(1), big.NewInt(0)})
	assert.True(t, errors.ErrInvalidAmount.Is(err))

	p, err := f.contract.GetProgram(f.db, "p")
	require.NoError(t, err)
	assert.Equal(t, int64(750), p.TotalLocked().Int64())
	assert.Equal(t, int64(300), p.TotalPaid().Int64())
	assert.Equal(t, int64(450), p.GetBalance().Int64())
	assert.NoError(t, p.Validate())
}

// nonCacheable hides the CacheWrap method of the wrapped store.
type nonCacheable struct {
	custody.KVStore
}

func TestBatchPayoutIsAtomic(t *testing.T) {
	f := newFixture(t)
	asAdmin := f.as("p", f.admin)
	require.NoError(t, f.contract.InitProgram(asAdmin, f.db, "p", f.admin.Address(), f.token))
	require.NoError(t, f.contract.LockProgramFunds(asAdmin, f.db, big.NewInt(500)))

	first := custodytest.RandomAddr(t)
	full := custodytest.RandomAddr(t)
	require.NoError(t, f.bank.IssueCoins(f.db, f.token, full, coin.MaxAmount))

	batch := func(db custody.KVStore) error {
		return f.contract.BatchPayout(asAdmin, db,
			[]custody.Address{first, full},
			[]*big.Int{big.NewInt(100), big.NewInt(100)})
	}

	// without a savepoint nothing is attempted
	err := batch(nonCacheable{f.db})
	assert.True(t, errors.ErrHuman.Is(err), "got %+v", err)
	assert.Equal(t, int64(500), f.contract.GetRemainingBalance(asAdmin, f.db).Int64())
	assert.Equal(t, int64(0), f.balance(f.db, first).Int64())

	// the second recipient cannot hold more, the first payout is undone
	err = batch(f.db)
	assert.True(t, errors.ErrInvalidAmount.Is(err), "got %+v", err)
	assert.Equal(t, int64(500), f.contract.GetRemainingBalance(asAdmin, f.db).Int64())
	assert.Equal(t, int64(500), f.balance(f.db, Condition("p").Address()).Int64())
	assert.Equal(t, int64(0), f.balance(f.db, first).Int64())
	assert.Equal(t, 0, coin.MaxAmount.Cmp(f.balance(f.db, full)))
}

func TestCustodyAddressIsRejected(t *testing.T) {
	f := newFixture(t)
	asAdmin := f.as("p", f.admin)
	require.NoError(t, f.contract.InitProgram(asAdmin, f.db, "p", f.admin.Address(), f.token))
	require.NoError(t, f.contract.LockProgramFunds(asAdmin, f.db, big.NewInt(100)))

	custodyAddr := Condition("p").Address()
	r := custodytest.RandomAddr(t)

	err := f.contract.SinglePayout(asAdmin, f.db, custodyAddr, big.NewInt(10))
	assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)
	err = f.contract.BatchPayout(asAdmin, f.db,
		[]custody.Address{r, custodyAddr},
		[]*big.Int{big.NewInt(10), big.NewInt(10)})
	assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)

	asCustody := f.as("p", Condition("p"))
	err = f.contract.LockProgramFunds(asCustody, f.db, big.NewInt(10))
	assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)

	assert.Equal(t, int64(100), f.contract.GetRemainingBalance(asAdmin, f.db).Int64())
	assert.Equal(t, int64(100), f.balance(f.db, custodyAddr).Int64())
	assert.Equal(t, int64(0), f.balance(f.db, r).Int64())
}

func TestGetVersion(t *testing.T) {
	c := NewContract(&custodytest.Auth{}, cash.NewController())
	assert.Equal(t, uint32(1_000_002), c.GetVersion())
	assert.Equal(t, custody.InterfaceVersion, c.GetInterfaceVersion())
}
