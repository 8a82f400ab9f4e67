package guildconfig

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_ResolveSnapshot(t *testing.T) {
	properties := gopter.NewProperties(nil)
	r, _ := newTestResolver(t)

	properties.Property("unseen guilds get the current defaults, later default changes never leak", prop.ForAll(
		func(guild uint64, buyPrice float64) bool {
			guildID := fmt.Sprint(guild)
			if _, err := r.Resolve(guildID); err != nil {
				return false
			}

			want := r.Defaults().NewGuildConfig()
			first, err := r.Resolve(guildID)
			if err != nil {
				return false
			}

			coins := models.CoinPrices{BuyBasePrice: buyPrice, SellBasePrice: buyPrice / 2}
			if err := r.SetDefaults(nil, &coins, nil); err != nil {
				return false
			}

			second, err := r.Resolve(guildID)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(first, second) && first.Coins == want.Coins && second.Coins != coins
		},
		gen.UInt64Range(1, 1<<62),
		gen.Float64Range(1, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
