package wallets

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trakli/webui/internal/config"
	"github.com/trakli/webui/internal/container"
	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
	"github.com/trakli/webui/internal/store"
)

func newApp(t *testing.T, source store.DataSource) *container.Container {
	t.Helper()
	cfg := &config.Config{
		Log:        config.LogConfig{Level: "info", Format: "text"},
		Statistics: config.StatisticsConfig{Source: "local"},
		Output:     config.OutputConfig{Format: "text", Delimiter: ","},
	}
	app, err := container.NewContainer(cfg, container.WithDataSource(source), container.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestRun(t *testing.T) {
	source := &store.MockDataSource{
		Currency:   "XAF",
		WalletList: []models.Wallet{{ID: 4, Name: "Mobile Money", Currency: "XAF"}},
	}

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), newApp(t, source), false, &out))
	assert.Contains(t, out.String(), "All Wallets")
	assert.Contains(t, out.String(), "Mobile Money")
	assert.Contains(t, out.String(), "4 ")

	out.Reset()
	require.NoError(t, Run(context.Background(), newApp(t, source), true, &out))
	var options []models.WalletOption
	require.NoError(t, json.Unmarshal(out.Bytes(), &options))
	require.Len(t, options, 2)
	assert.Nil(t, options[0].ID)
	assert.Equal(t, "XAF", options[0].Currency)
}

func TestRun_LoadError(t *testing.T) {
	source := &store.MockDataSource{WalletsError: assert.AnError}
	var out bytes.Buffer
	err := Run(context.Background(), newApp(t, source), false, &out)
	assert.ErrorIs(t, err, assert.AnError)
}
