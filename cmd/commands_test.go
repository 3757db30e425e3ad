package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-analytics/models"
	"sales-analytics/storage"
	"sales-analytics/utils"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateAndInspectCommands(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	path := filepath.Join(t.TempDir(), "gen", "sales.csv")

	_, err := execute(t, "generate", "--orders", "25", "--seed", "11", "--out", path)
	require.NoError(t, err)

	reader, err := storage.OpenSource(path, utils.NewNopLogger())
	require.NoError(t, err)
	raw, err := reader.Read(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, raw.Rows, 25)
	assert.Equal(t, models.Schema, raw.Columns)

	out, err := execute(t, "inspect", "--data", path)
	require.NoError(t, err)
	assert.Contains(t, out, "25 rows × 9 columns")
	assert.Contains(t, out, "Missing values:")
	assert.Contains(t, out, models.ColStatus)
}

func TestGenerateRejectsZeroOrders(t *testing.T) {
	_, err := execute(t, "generate", "--orders", "0", "--out", filepath.Join(t.TempDir(), "x.csv"))
	assert.ErrorContains(t, err, "at least 1")
}
