package cash

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func TestGenesis(t *testing.T) {
	token := custodytest.NewCondition().Address()
	alice := custodytest.NewCondition().Address()

	cases := map[string]struct {
		genesis   string
		wantErr   *errors.Error
		wantAlice int64
	}{
		"no accounts": {
			genesis: `{}`,
		},
		"one account": {
			genesis: fmt.Sprintf(`{"cash": [{"address": %q, "coins": [{"token": %q, "amount": "170141183460469231731687303715884105727"}, {"token": %q, "amount": "0"}]}]}`,
				hexOf(alice), hexOf(token), hexOf(token)),
		},
		"small account": {
			genesis:   fmt.Sprintf(`{"cash": [{"address": %q, "coins": [{"token": %q, "amount": "42"}]}]}`, hexOf(alice), hexOf(token)),
			wantAlice: 42,
		},
		"negative amount": {
			genesis: fmt.Sprintf(`{"cash": [{"address": %q, "coins": [{"token": %q, "amount": "-1"}]}]}`, hexOf(alice), hexOf(token)),
			wantErr: errors.ErrInvalidAmount,
		},
		"invalid address": {
			genesis: `{"cash": [{"address": "", "coins": []}]}`,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts custody.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.genesis), &opts))

			db := store.MemStore()
			err := Initializer{}.FromGenesis(context.Background(), opts, db)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			if tc.wantAlice != 0 {
				assert.Amount(t, tc.wantAlice, NewController().Balance(db, token, alice))
			}
		})
	}
}

func hexOf(a custody.Address) string {
	return fmt.Sprintf("%X", []byte(a))
}
