package database

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManagers(t *testing.T) *Managers {
	t.Helper()
	return NewManagers(newTestStore(t))
}

func TestVouchNumberingIsDense(t *testing.T) {
	m := newTestManagers(t)

	for i := 1; i <= 3; i++ {
		v, err := m.RecordVouch("42", "seller", VouchInput{
			VouchedByID: fmt.Sprintf("buyer-%d", i),
			Product:     "Coins",
			Value:       10,
			Review:      "fast",
			Rating:      i + 2,
		})
		require.NoError(t, err)
		assert.Equal(t, i, v.VouchNumber)
		assert.Equal(t, "seller", v.SellerID)
	}

	count, err := m.VouchCount("42", "seller")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	list, err := m.SellerVouches("42", "seller")
	require.NoError(t, err)
	for i, v := range list {
		assert.Equal(t, i+1, v.VouchNumber)
	}

	n, avg, err := m.VouchStats("42", "seller")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.InDelta(t, 4.0, avg, 1e-9)
}

func TestVouchNumberingConcurrent(t *testing.T) {
	m := newTestManagers(t)

	const buyers = 20
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.RecordVouch("42", "seller", VouchInput{
				VouchedByID: fmt.Sprintf("buyer-%d", i),
				Product:     "MFA",
				Value:       5,
				Rating:      5,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := m.SellerVouches("42", "seller")
	require.NoError(t, err)
	require.Len(t, list, buyers)
	for i, v := range list {
		assert.Equal(t, i+1, v.VouchNumber)
	}
}

func TestRecordVouchValidation(t *testing.T) {
	m := newTestManagers(t)

	tests := []struct {
		name string
		in   VouchInput
		want error
	}{
		{"self vouch", VouchInput{VouchedByID: "seller", Product: "x", Value: 1, Rating: 5}, ErrSelfVouch},
		{"rating too low", VouchInput{VouchedByID: "b", Product: "x", Value: 1, Rating: 0}, ErrInvalidVouch},
		{"rating too high", VouchInput{VouchedByID: "b", Product: "x", Value: 1, Rating: 6}, ErrInvalidVouch},
		{"zero value", VouchInput{VouchedByID: "b", Product: "x", Value: 0, Rating: 3}, ErrInvalidVouch},
		{"missing product", VouchInput{VouchedByID: "b", Product: "  ", Value: 1, Rating: 3}, ErrInvalidVouch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.RecordVouch("42", "seller", tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	count, err := m.VouchCount("42", "seller")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGuildVouchesFlattened(t *testing.T) {
	m := newTestManagers(t)

	_, err := m.RecordVouch("42", "b-seller", VouchInput{VouchedByID: "x", Product: "p", Value: 1, Rating: 4})
	require.NoError(t, err)
	_, err = m.RecordVouch("42", "a-seller", VouchInput{VouchedByID: "x", Product: "p", Value: 1, Rating: 4})
	require.NoError(t, err)
	_, err = m.RecordVouch("42", "a-seller", VouchInput{VouchedByID: "y", Product: "p", Value: 1, Rating: 2})
	require.NoError(t, err)

	all, err := m.GuildVouches("42")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a-seller", all[0].SellerID)
	assert.Equal(t, 1, all[0].VouchNumber)
	assert.Equal(t, "a-seller", all[1].SellerID)
	assert.Equal(t, 2, all[1].VouchNumber)
	assert.Equal(t, "b-seller", all[2].SellerID)

	empty, err := m.GuildVouches("7")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestWarningsAppendOnly(t *testing.T) {
	m := newTestManagers(t)

	first, count, err := m.AddWarning("42", "user", "mod", "spam")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NotEmpty(t, first.ID)

	_, count, err = m.AddWarning("42", "user", "mod", "scam attempt")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	list, err := m.ListWarnings("42", "user")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "spam", list[0].Reason)
	assert.Equal(t, "scam attempt", list[1].Reason)

	_, _, err = m.AddWarning("42", "user", "mod", " ")
	assert.ErrorIs(t, err, ErrEmptyReason)

	require.NoError(t, m.RemoveWarning("42", "user", first.ID, "owner"))
	n, err := m.WarningCount("42", "user")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	active, err := m.ListWarnings("42", "user")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "scam attempt", active[0].Reason)

	history, err := m.WarningHistory("42", "user")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Revoked)
	assert.Equal(t, "owner", history[0].RevokedBy)
	require.NotNil(t, history[0].RevokedAt)
	assert.False(t, history[1].Revoked)

	assert.ErrorIs(t, m.RemoveWarning("42", "user", first.ID, "owner"), ErrWarningNotFound)
	assert.ErrorIs(t, m.RemoveWarning("43", "user", first.ID, "owner"), ErrWarningNotFound)

	// Revoked warnings do not count towards the total of a new one.
	_, count, err = m.AddWarning("42", "user", "mod", "again")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestServicesUseInjectedClock(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManagers(newTestStore(t), WithClock(func() time.Time { return at }))

	w, _, err := m.AddWarning("42", "user", "mod", "spam")
	require.NoError(t, err)
	assert.Equal(t, at, w.Timestamp)

	at = at.Add(time.Hour)
	require.NoError(t, m.RemoveWarning("42", "user", w.ID, "owner"))
	history, err := m.WarningHistory("42", "user")
	require.NoError(t, err)
	require.NotNil(t, history[0].RevokedAt)
	assert.Equal(t, at, *history[0].RevokedAt)

	v, err := m.RecordVouch("42", "seller", VouchInput{VouchedByID: "buyer", Product: "VIP", Value: 10, Review: "ok", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, at, v.Timestamp)

	entry, err := m.AddToBlacklist("42", "user", "chargeback", "staff")
	require.NoError(t, err)
	assert.Equal(t, at, entry.Timestamp)
}

func TestBlacklistLastWriteWins(t *testing.T) {
	m := newTestManagers(t)

	listed, err := m.IsBlacklisted("42", "user")
	require.NoError(t, err)
	assert.False(t, listed)

	_, err = m.AddToBlacklist("42", "user", "chargeback", "staff")
	require.NoError(t, err)
	_, err = m.AddToBlacklist("42", "user", "scammer", "staff")
	require.NoError(t, err)

	entry, err := m.BlacklistEntryFor("42", "user")
	require.NoError(t, err)
	assert.Equal(t, "scammer", entry.Reason)

	listed, err = m.IsBlacklisted("42", "user")
	require.NoError(t, err)
	assert.True(t, listed)

	// Other guilds are unaffected.
	listed, err = m.IsBlacklisted("43", "user")
	require.NoError(t, err)
	assert.False(t, listed)

	removed, err := m.RemoveFromBlacklist("42", "user")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = m.RemoveFromBlacklist("42", "user")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = m.BlacklistEntryFor("42", "user")
	assert.ErrorIs(t, err, ErrBlacklistEntryNotFound)
}

func TestWallets(t *testing.T) {
	m := newTestManagers(t)

	code, err := m.SetWallet("42", "btc", "bc1qxyz0000000")
	require.NoError(t, err)
	assert.Equal(t, "BTC", code)

	_, err = m.SetWallet("42", "BTC", "bc1qnew0000000")
	require.NoError(t, err)

	addr, err := m.Wallet("42", "Btc")
	require.NoError(t, err)
	assert.Equal(t, "bc1qnew0000000", addr)

	_, err = m.SetWallet("42", "eth", "short")
	assert.ErrorIs(t, err, ErrInvalidWallet)

	all, err := m.ListWallets("42")
	require.NoError(t, err)
	assert.Len(t, all, 1)

	removed, err := m.RemoveWallet("42", "btc")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = m.RemoveWallet("42", "btc")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = m.Wallet("42", "btc")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}
