package app

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "custody-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
		return path
	}

	cases := map[string]struct {
		content string
		want    Config
		wantErr *errors.Error
	}{
		"defaults": {
			content: "",
			want:    DefaultConfig(),
		},
		"overrides": {
			content: "ChainID = \"custody-test\"\nLogLevel = \"debug\"\nDataDir = \"/var/lib/custody\"\n",
			want: Config{
				ChainID:          "custody-test",
				DataDir:          "/var/lib/custody",
				LogLevel:         "debug",
				MetricsNamespace: "custody",
			},
		},
		"unknown key": {
			content: "ChainID = \"custody-test\"\nListenAddress = \":8080\"\n",
			wantErr: errors.ErrInvalidInput,
		},
		"invalid log level": {
			content: "LogLevel = \"loud\"\n",
			wantErr: errors.ErrInvalidInput,
		},
		"invalid chain id": {
			content: "ChainID = \"x\"\n",
			wantErr: errors.ErrInvalidInput,
		},
		"malformed": {
			content: "ChainID = ",
			wantErr: errors.ErrInvalidInput,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := write(strings.Replace(name, " ", "_", -1)+".toml", tc.content)
			conf, err := LoadConfig(path)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "want %s, got %+v", tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, conf)
		})
	}
}

func TestWriteConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "custody-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	conf := DefaultConfig()
	conf.ChainID = "custody-written"
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, WriteConfig(path, conf))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, conf, got)
}

func TestConfigLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := DefaultConfig()
	conf.LogLevel = "error"
	logger, err := conf.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Error("shown", "code", 105)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
