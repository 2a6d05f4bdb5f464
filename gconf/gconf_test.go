package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *MyConfig
		WantSaveErr *errors.Error
	}{
		"all fields": {
			Conf: &MyConfig{Number: 852151421, Text: "foobar", Addr: custody.NewAddress([]byte("admin"))},
		},
		"zero number": {
			Conf: &MyConfig{Text: "foo", Addr: custody.NewAddress([]byte("admin"))},
		},
		"invalid address cannot be saved": {
			Conf:        &MyConfig{Addr: custody.Address("too short")},
			WantSaveErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "mypkg", tc.Conf)
			if tc.WantSaveErr != nil {
				assert.IsErr(t, tc.WantSaveErr, err)
				assert.Equal(t, false, Exists(db, "mypkg"))
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, true, Exists(db, "mypkg"))

			var got MyConfig
			assert.Nil(t, Load(db, "mypkg", &got))
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var got MyConfig
	assert.IsErr(t, errors.ErrNotFound, Load(db, "mypkg", &got))
}

func TestInitConfig(t *testing.T) {
	addr := custody.NewAddress([]byte("admin"))
	raw, err := json.Marshal(map[string]interface{}{
		"conf": map[string]interface{}{
			"mypkg": MyConfig{Number: 7, Text: "seven", Addr: addr},
		},
	})
	assert.Nil(t, err)
	var opts custody.Options
	assert.Nil(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	assert.Nil(t, InitConfig(db, opts, "mypkg", &MyConfig{}))

	var got MyConfig
	assert.Nil(t, Load(db, "mypkg", &got))
	assert.Equal(t, MyConfig{Number: 7, Text: "seven", Addr: addr}, got)

	err = InitConfig(db, opts, "otherpkg", &MyConfig{})
	assert.IsErr(t, errors.ErrNotFound, err)
}

type MyConfig struct {
	Number int64
	Text   string
	Addr   custody.Address
}

func (c *MyConfig) Validate() error {
	return c.Addr.Validate()
}

func (c *MyConfig) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func (c *MyConfig) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}
