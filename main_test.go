package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	businessflow "github.com/amirphl/card-transactions-generator/business_flow"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, schemaCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "authorization")
	assert.Contains(t, out, "114 columns")
	assert.Contains(t, out, "8 columns")

	out, err = execute(t, schemaCmd(), "chargeback")
	require.NoError(t, err)
	assert.Contains(t, out, "transaction_id")
	assert.Contains(t, out, "decimal(18,2)")

	_, err = execute(t, schemaCmd(), "settlement")
	assert.Error(t, err)
}

func TestPartitionShowWithMemoryBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PARTITION_BACKEND", "memory")

	_, err := execute(t, partitionCmd(), "show", "--date", "2025-03-11")
	require.Error(t, err)
	assert.True(t, businessflow.IsPartitionNotFound(err))
	assert.Equal(t, "PARTITION_NOT_FOUND", errorCode(err))
}

func TestPartitionCompleteRejectsInactiveJob(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PARTITION_BACKEND", "memory")

	_, err := execute(t, partitionCmd(), "complete", "--date", "bad-date", "--job-id", "abc_0")
	require.Error(t, err)
	assert.True(t, businessflow.IsConfiguration(err))
	assert.Equal(t, "INVALID_DATE", errorCode(err))
}

func TestPartitionCommandInvalidBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PARTITION_BACKEND", "etcd")

	_, err := execute(t, partitionCmd(), "show", "--date", "2025-03-11")
	require.Error(t, err)
	assert.Equal(t, "INVALID_CONFIGURATION", errorCode(err))
}

func TestGenerateDryRun(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	report := filepath.Join(dir, "report.xlsx")
	t.Setenv("PAYMENT_DATA_BUCKET_NAME", "payment-data")
	t.Setenv("AUTHORIZATION_BUCKET_NAME", "authorization")
	t.Setenv("CLEARING_BUCKET_NAME", "clearing")
	t.Setenv("CHARGEBACK_BUCKET_NAME", "chargeback")
	t.Setenv("PARTITION_BACKEND", "memory")
	t.Setenv("REFERENCE_POOL_ENABLED", "false")
	t.Setenv("DRY_RUN", "true")
	t.Setenv("NUM_OF_ROWS", "25")
	t.Setenv("CHARGEBACK_PERCENTAGE", "10")
	t.Setenv("REPORT_PATH", report)

	require.NoError(t, runGenerate(context.Background()))
	assert.FileExists(t, report)
}

func TestGenerateRejectsInvalidConfiguration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PAYMENT_DATA_BUCKET_NAME", "")

	err := runGenerate(context.Background())
	require.Error(t, err)
	assert.True(t, businessflow.IsConfiguration(err))
}

func TestGenerateRejectsMalformedArrayIndex(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AWS_BATCH_JOB_ARRAY_INDEX", "12x")

	err := runGenerate(context.Background())
	require.Error(t, err)
	assert.True(t, businessflow.IsConfiguration(err))
	assert.Equal(t, "CONFIGURATION_LOAD_FAILED", errorCode(err))
}

func TestErrorCodeFallback(t *testing.T) {
	assert.Equal(t, "INTERNAL_ERROR", errorCode(errors.New("plain")))
}
