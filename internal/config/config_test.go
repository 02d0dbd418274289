package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymkw/kifulog/internal/config"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://chat.example.com/hook")
	t.Setenv("SPREADSHEET_ID", "sheet-id-1")
	t.Setenv("SHEET_NAME", "donations")

	cfg := config.Load()

	assert.Equal(t, "https://chat.example.com/hook", cfg.WebhookURL)
	assert.Equal(t, "sheet-id-1", cfg.SpreadsheetID)
	assert.Equal(t, "donations", cfg.SheetName)
}

func TestLoadEmptyEnv(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "")
	t.Setenv("SPREADSHEET_ID", "")
	t.Setenv("SHEET_NAME", "")

	cfg := config.Load()

	assert.Equal(t, config.Config{}, cfg)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "")
	t.Setenv("SPREADSHEET_ID", "")
	t.Setenv("SHEET_NAME", "env-wins")

	path := filepath.Join(t.TempDir(), "kifulog.yaml")
	yaml := "webhook_url: https://chat.example.com/from-file\nspreadsheet_id: file-sheet-id\nsheet_name: from-file\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://chat.example.com/from-file", cfg.WebhookURL)
	assert.Equal(t, "file-sheet-id", cfg.SpreadsheetID)
	// Environment always overrides the file layer.
	assert.Equal(t, "env-wins", cfg.SheetName)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := config.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCapabilityPredicates(t *testing.T) {
	cases := []struct {
		name         string
		cfg          config.Config
		notification bool
		ledger       bool
	}{
		{name: "nothing set", cfg: config.Config{}},
		{
			name:         "webhook only",
			cfg:          config.Config{WebhookURL: "https://chat.example.com/hook"},
			notification: true,
		},
		{
			name: "spreadsheet id without sheet name",
			cfg:  config.Config{SpreadsheetID: "id-1"},
		},
		{
			name: "sheet name without spreadsheet id",
			cfg:  config.Config{SheetName: "donations"},
		},
		{
			name:   "full ledger config",
			cfg:    config.Config{SpreadsheetID: "id-1", SheetName: "donations"},
			ledger: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.notification, tc.cfg.NotificationCapable())
			assert.Equal(t, tc.ledger, tc.cfg.LedgerCapable())
		})
	}
}
