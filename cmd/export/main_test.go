package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trezzy/internal/datastore"
	"trezzy/internal/testutil"
)

func TestExportBalancesPages(t *testing.T) {
	ctx := context.Background()
	db := testutil.GetEmptyTestDB(t)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, userID := range []string{"1", "2", "3"} {
		_, err := datastore.SetBalance(ctx, db, userID, int64(10*(i+1)), now)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	n, err := exportBalances(ctx, db, &buf, 2)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, []string{
		"user_id,balance,updated_at",
		"3,30,2024-05-01T00:00:00Z",
		"2,20,2024-05-01T00:00:00Z",
		"1,10,2024-05-01T00:00:00Z",
	}, lines)
}
