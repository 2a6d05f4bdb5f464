package bounty

import (
	"math/big"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscrowValidate(t *testing.T) {
	depositor := custodytest.RandomAddr(t)

	cases := map[string]struct {
		escrow  *Escrow
		wantErr *errors.Error
	}{
		"fresh escrow": {
			escrow: NewEscrow(depositor, big.NewInt(10), 0),
		},
		"missing depositor": {
			escrow:  NewEscrow(nil, big.NewInt(10), 0),
			wantErr: errors.ErrInvalidInput,
		},
		"zero amount": {
			escrow:  NewEscrow(depositor, big.NewInt(0), 0),
			wantErr: errors.ErrInvalidAmount,
		},
		"remaining above amount": {
			escrow: &Escrow{
				Depositor: depositor,
				Amount:    "10",
				Remaining: "11",
				Status:    uint32(custody.StatusLocked),
			},
			wantErr: errors.ErrInvalidAmount,
		},
		"terminal escrow holding funds": {
			escrow: &Escrow{
				Depositor: depositor,
				Amount:    "10",
				Remaining: "1",
				Status:    uint32(custody.StatusReleased),
			},
			wantErr: errors.ErrInvalidState,
		},
		"unknown status": {
			escrow: &Escrow{
				Depositor: depositor,
				Amount:    "10",
				Remaining: "10",
				Status:    42,
			},
			wantErr: errors.ErrInvalidState,
		},
		"malformed amount": {
			escrow: &Escrow{
				Depositor: depositor,
				Amount:    "ten",
				Remaining: "10",
				Status:    uint32(custody.StatusLocked),
			},
			wantErr: errors.ErrEncoding,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.escrow.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "want %s, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestEscrowPersistence(t *testing.T) {
	// amounts beyond 64 bits must survive serialization
	amount, ok := new(big.Int).SetString("170141183460469231731687303715884105727", 10)
	require.True(t, ok)
	e := NewEscrow(custodytest.RandomAddr(t), amount, 1556712000)

	raw, err := e.Marshal()
	require.NoError(t, err)
	var got Escrow
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, *e, got)
	assert.Equal(t, 0, amount.Cmp(got.Balance()))
	assert.Equal(t, custody.StatusLocked, got.GetStatus())
}
