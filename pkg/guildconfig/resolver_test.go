package guildconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, opts ...Option) (*Resolver, *database.Store) {
	t.Helper()
	store, err := database.NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.EnsureInitialized())
	return NewResolver(store, models.BuiltinDefaults(), opts...), store
}

func TestResolveMaterializesDefaults(t *testing.T) {
	r, store := newTestResolver(t)

	cfg, err := r.Resolve("42")
	require.NoError(t, err)

	want := r.Defaults().NewGuildConfig()
	assert.Equal(t, want, cfg)
	assert.Empty(t, cfg.Owners)
	assert.Equal(t, []string{"Crypto"}, cfg.Payments)
	assert.Equal(t, 17.0, cfg.MFAPrices.Buy["MVP+"])

	_, ok, err := store.GetPartition(database.CollGuildConfig, "42")
	require.NoError(t, err)
	assert.True(t, ok, "config must be persisted on first read")
}

func TestResolveIsSnapshot(t *testing.T) {
	r, _ := newTestResolver(t)

	first, err := r.Resolve("42")
	require.NoError(t, err)

	require.NoError(t, r.SetDefaults([]string{"PayPal"}, &models.CoinPrices{BuyBasePrice: 1, SellBasePrice: 0.5}, nil))

	second, err := r.Resolve("42")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Crypto"}, second.Payments)

	// A new guild picks up the new defaults.
	fresh, err := r.Resolve("43")
	require.NoError(t, err)
	assert.Equal(t, []string{"PayPal"}, fresh.Payments)
	assert.Equal(t, 1.0, fresh.Coins.BuyBasePrice)
}

func TestResolveReturnsIndependentCopies(t *testing.T) {
	r, _ := newTestResolver(t)

	cfg, err := r.Resolve("42")
	require.NoError(t, err)
	cfg.Payments[0] = "mutated"
	cfg.MFAPrices.Buy["NON"] = 999

	again, err := r.Resolve("42")
	require.NoError(t, err)
	assert.Equal(t, "Crypto", again.Payments[0])
	assert.Equal(t, 7.0, again.MFAPrices.Buy["NON"])

	d := r.Defaults()
	d.Defaults.Payments[0] = "mutated"
	assert.Equal(t, "Crypto", r.Defaults().Defaults.Payments[0])
}

func TestResolveMigratesLegacyTable(t *testing.T) {
	r, store := newTestResolver(t)
	legacy := `{"owners":[123456789012345678],"staff_role":987,"payments":["Crypto"],` +
		`"coins":{"buy_base_price":0.04,"sell_base_price":0.02},` +
		`"mfa_prices":{"NON":10.0,"VIP":20.0}}`
	require.NoError(t, store.SetPartition(database.CollGuildConfig, "42", json.RawMessage(legacy)))

	cfg, err := r.Resolve("42")
	require.NoError(t, err)
	assert.False(t, cfg.MFAPrices.IsLegacy())
	assert.Equal(t, 10.0, cfg.MFAPrices.Buy["NON"])
	assert.InDelta(t, 9.0, cfg.MFAPrices.Sell["NON"], 1e-9)
	assert.InDelta(t, 18.0, cfg.MFAPrices.Sell["VIP"], 1e-9)
	assert.True(t, cfg.HasOwner("123456789012345678"))
	assert.Equal(t, models.FlexibleID("987"), cfg.StaffRole)

	raw, _, err := store.GetPartition(database.CollGuildConfig, "42")
	require.NoError(t, err)
	assert.False(t, partitionNeedsMigration(raw), "migration must be persisted before returning")
}

func TestResolveLeavesUnsafeLegacyTable(t *testing.T) {
	r, store := newTestResolver(t)
	legacy := `{"owners":[],"payments":[],"mfa_prices":{"NON":"ask staff","VIP":8}}`
	require.NoError(t, store.SetPartition(database.CollGuildConfig, "42", json.RawMessage(legacy)))

	cfg, err := r.Resolve("42")
	require.NoError(t, err)
	assert.True(t, cfg.MFAPrices.IsLegacy())
	assert.Equal(t, 8.0, cfg.MFAPrices.Buy["VIP"])

	raw, _, err := store.GetPartition(database.CollGuildConfig, "42")
	require.NoError(t, err)
	assert.JSONEq(t, legacy, string(raw))

	_, err = r.SetMFAPrice("42", Sell, "VIP", 7)
	assert.ErrorIs(t, err, ErrLegacyPrices)

	// Unrelated updates keep the legacy bytes.
	_, err = r.SetStaffRole("42", "55")
	require.NoError(t, err)
	raw, _, err = store.GetPartition(database.CollGuildConfig, "42")
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.JSONEq(t, `{"NON":"ask staff","VIP":8}`, string(fields["mfa_prices"]))
}

func TestConcurrentFirstResolve(t *testing.T) {
	r, _ := newTestResolver(t)

	const readers = 16
	results := make([]*models.GuildConfig, readers)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := r.Resolve("42")
			assert.NoError(t, err)
			results[i] = cfg
		}(i)
	}
	wg.Wait()

	for _, cfg := range results[1:] {
		assert.Equal(t, results[0], cfg)
	}
}

func TestOwners(t *testing.T) {
	r, _ := newTestResolver(t)

	added, err := r.AddOwner("42", "7")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = r.AddOwner("42", "7")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = r.AddOwner("42", "8")
	require.NoError(t, err)

	cfg, err := r.Resolve("42")
	require.NoError(t, err)
	assert.Equal(t, []models.FlexibleID{"7", "8"}, cfg.Owners)

	removed, err := r.RemoveOwner("42", "7")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = r.RemoveOwner("42", "7")
	require.NoError(t, err)
	assert.False(t, removed)

	cfg, err = r.Resolve("42")
	require.NoError(t, err)
	assert.Equal(t, []models.FlexibleID{"8"}, cfg.Owners)
}

func TestPriceMutators(t *testing.T) {
	r, _ := newTestResolver(t)

	cfg, err := r.SetCoinPrices("42", 0.05, 0.02)
	require.NoError(t, err)
	assert.Equal(t, 0.05, cfg.Coins.BuyBasePrice)

	_, err = r.SetCoinPrices("42", 0, 0.02)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	cfg, err = r.SetMFAPrice("42", Sell, "MVP", 12.5)
	require.NoError(t, err)
	assert.Equal(t, 12.5, cfg.MFAPrices.Sell["MVP"])
	assert.Equal(t, 11.0, cfg.MFAPrices.Buy["MVP"])

	_, err = r.SetMFAPrice("42", Buy, "GOD", 5)
	assert.ErrorIs(t, err, ErrUnknownRank)

	_, err = r.SetMFAPrice("42", Buy, "VIP", -3)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	again, err := r.Resolve("42")
	require.NoError(t, err)
	assert.Equal(t, 0.05, again.Coins.BuyBasePrice)
	assert.Equal(t, 12.5, again.MFAPrices.Sell["MVP"])
}

func TestBindingMutators(t *testing.T) {
	r, _ := newTestResolver(t)

	cfg, err := r.SetChannel("42", ChannelVouches, "555")
	require.NoError(t, err)
	assert.Equal(t, models.FlexibleID("555"), cfg.Channels.Vouches)

	_, err = r.SetChannel("42", "memes", "1")
	assert.ErrorIs(t, err, ErrUnknownChannelKind)

	cfg, err = r.SetPayments("42", []string{" PayPal ", "", "Crypto", "Crypto"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PayPal", "Crypto", "Crypto"}, cfg.Payments)

	cfg, err = r.SetCategoryEnabled("42", models.TicketSellAlt, false)
	require.NoError(t, err)
	assert.False(t, cfg.Category(models.TicketSellAlt).Enabled)
	assert.True(t, cfg.Category(models.TicketBuyCoins).Enabled)

	_, err = r.SetCategoryEnabled("42", models.TicketType("refund"), true)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	cfg, err = r.UpdateCategory("42", models.TicketBuyMFA, models.TicketCategory{Enabled: true, Name: "Comprar MFA", CategoryID: "900"})
	require.NoError(t, err)
	assert.Equal(t, "Comprar MFA", cfg.Category(models.TicketBuyMFA).Name)

	cfg, err = r.SetImages("42", models.Images{TicketBanner: "https://example.com/banner.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/banner.png", cfg.Images.TicketBanner)

	cfg, err = r.SetStaffRole("42", "321")
	require.NoError(t, err)
	assert.Equal(t, models.FlexibleID("321"), cfg.StaffRole)
}

func TestMutatorOnFreshGuildMaterializesFirst(t *testing.T) {
	r, _ := newTestResolver(t)

	cfg, err := r.SetStaffRole("77", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Crypto"}, cfg.Payments)
}

func TestSetDefaultsPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	r, _ := newTestResolver(t, WithDefaultsPath(path))

	require.NoError(t, r.SetDefaults([]string{"Zelle"}, nil, nil))

	loaded, err := LoadDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zelle"}, loaded.Defaults.Payments)

	err = r.SetDefaults(nil, &models.CoinPrices{BuyBasePrice: -1, SellBasePrice: 1}, nil)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestLoadDefaultsCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	d, err := LoadDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, models.BuiltinDefaults(), d)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadDefaultsToleratesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
	// bot credentials
	"token": "abc",
	"client_id": 1234567890,
	"owner_id": "42",
	"defaults": {
		"payments": ["Crypto", "PayPal",],
		/* legacy flat layout */
		"mfa_prices": {"NON": 10, "VIP": 20},
	},
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := LoadDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", d.Token)
	assert.Equal(t, models.FlexibleID("1234567890"), d.ClientID)
	assert.Equal(t, models.FlexibleID("42"), d.OwnerID)
	assert.Equal(t, []string{"Crypto", "PayPal"}, d.Defaults.Payments)
	assert.False(t, d.Defaults.MFAPrices.IsLegacy())
	assert.InDelta(t, 18.0, d.Defaults.MFAPrices.Sell["VIP"], 1e-9)
	// Missing sections keep the built-in values.
	assert.Equal(t, 0.0375, d.Defaults.Coins.BuyBasePrice)
}

func TestLoadDefaultsRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1,2,3]`), 0o644))

	_, err := LoadDefaults(path)
	assert.Error(t, err)
}

func TestResolveStorageFailure(t *testing.T) {
	r, store := newTestResolver(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "guild_config.json"), []byte(`{"42":`), 0o644))
	store.ClearCache()

	_, err := r.Resolve("42")
	assert.ErrorIs(t, err, database.ErrStorageUnavailable)
}

func ExampleMigrateMFAPrices() {
	out, changed, _ := MigrateMFAPrices(json.RawMessage(`{"NON":10}`))
	fmt.Println(changed, string(out))
	// Output: true {"buy":{"NON":10},"sell":{"NON":9}}
}

func TestReloadDefaults(t *testing.T) {
	r, _ := newTestResolver(t)
	_, err := r.ReloadDefaults()
	assert.ErrorIs(t, err, ErrNoDefaultsFile)

	path := filepath.Join(t.TempDir(), "config.json")
	r, _ = newTestResolver(t, WithDefaultsPath(path))
	require.NoError(t, os.WriteFile(path, []byte(`{
		// edited by hand
		"owner_id": "77",
		"defaults": {"payments": ["Bizum"],},
	}`), 0o644))

	d, err := r.ReloadDefaults()
	require.NoError(t, err)
	assert.Equal(t, "77", r.AppOwnerID())
	assert.Equal(t, []string{"Bizum"}, d.Defaults.Payments)

	cfg, err := r.Resolve("5")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bizum"}, cfg.Payments)
}
