package testutil_test

import (
	"context"
	"testing"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/Veraticus/payfilter/internal/testutil"
	"github.com/Veraticus/payfilter/internal/testutil/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t, payments.Sample())

	assert.Equal(t, 10, db.MustCount())
	assert.Len(t, db.Payments, 10)

	p, err := db.Storage.GetPaymentByID(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, "Pending", p.Status)
}

func TestSetupTestDBWithOptions(t *testing.T) {
	var sawSetup bool
	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
		Filters: []model.SavedFilter{{
			ID:        "f1",
			Name:      "Pending",
			CreatedAt: payments.ReferenceTime,
			Filters:   model.FilterState{Status: []string{"Pending"}},
		}},
		CustomSetup: func(_ context.Context, _ service.Storage) error {
			sawSetup = true
			return nil
		},
	})

	assert.True(t, sawSetup)
	assert.Equal(t, 0, db.MustCount())

	filters, err := db.Storage.ListFilters(context.Background())
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, "Pending", filters[0].Name)
}
