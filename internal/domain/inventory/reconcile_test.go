package inventory_test

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-engine/internal/domain/entity"
	"github.com/jhoicas/stock-engine/internal/domain/inventory"
)

func seqOf(entries ...*entity.LedgerEntry) iter.Seq2[*entity.LedgerEntry, error] {
	return func(yield func(*entity.LedgerEntry, error) bool) {
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func TestReplayBalance(t *testing.T) {
	entries := seqOf(
		&entity.LedgerEntry{ToLocationID: "A", Quantity: qty("10")},                     // recepción
		&entity.LedgerEntry{FromLocationID: "A", Quantity: qty("4")},                   // entrega
		&entity.LedgerEntry{FromLocationID: "A", ToLocationID: "B", Quantity: qty("5")}, // traslado
		&entity.LedgerEntry{ToLocationID: "A", Quantity: qty("-1")},                    // ajuste
		&entity.LedgerEntry{ToLocationID: "C", Quantity: qty("7")},
	)

	balance, n, err := inventory.ReplayBalance(entries, "A")
	require.NoError(t, err)
	assert.True(t, balance.Equal(qty("0")), "10 - 4 - 5 - 1 = %s", balance)
	assert.Equal(t, 4, n)

	balance, n, err = inventory.ReplayBalance(entries, "B")
	require.NoError(t, err)
	assert.True(t, balance.Equal(qty("5")))
	assert.Equal(t, 1, n)
}

func TestReplayBalance_PropagaError(t *testing.T) {
	boom := errors.New("boom")
	entries := func(yield func(*entity.LedgerEntry, error) bool) {
		if !yield(&entity.LedgerEntry{ToLocationID: "A", Quantity: qty("1")}, nil) {
			return
		}
		yield(nil, boom)
	}
	_, _, err := inventory.ReplayBalance(entries, "A")
	assert.ErrorIs(t, err, boom)
}
