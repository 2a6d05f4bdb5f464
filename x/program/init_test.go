package program

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/iov-one/custody/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	first := custodytest.RandomAddr(t)
	second := custodytest.RandomAddr(t)
	token := custodytest.RandomAddr(t)

	raw, err := json.Marshal([]GenesisProgram{
		{ID: "grants", Admin: first, Token: token},
		{ID: "bugs", Admin: second, Token: token},
	})
	require.NoError(t, err)

	db := store.MemStore()
	c := NewContract(&custodytest.Auth{}, cash.NewController())
	gen := &Initializer{Contract: c}
	require.NoError(t, gen.FromGenesis(context.Background(), custody.Options{"program": raw}, db))

	assert.True(t, c.ProgramExists(db, "grants"))
	assert.True(t, c.ProgramExists(db, "bugs"))
	assert.Equal(t, first, c.GetAdmin(db))

	p, err := c.GetProgram(db, "bugs")
	require.NoError(t, err)
	assert.Equal(t, second, p.Admin)
}

func TestGenesisDuplicate(t *testing.T) {
	admin := custodytest.RandomAddr(t)
	token := custodytest.RandomAddr(t)
	raw, err := json.Marshal([]GenesisProgram{
		{ID: "grants", Admin: admin, Token: token},
		{ID: "grants", Admin: admin, Token: token},
	})
	require.NoError(t, err)

	db := store.MemStore()
	c := NewContract(&custodytest.Auth{}, cash.NewController())
	gen := &Initializer{Contract: c}
	err = gen.FromGenesis(context.Background(), custody.Options{"program": raw}, db)
	assert.True(t, errors.ErrAlreadyInitialized.Is(err))
}
