package guildconfig

import (
	"bytes"
	"math"
	"testing"

	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/goccy/go-json"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genFlatTable() gopter.Gen {
	ranks := make([]interface{}, len(models.Ranks))
	for i, r := range models.Ranks {
		ranks[i] = string(r)
	}
	return gen.MapOf(gen.OneConstOf(ranks...), gen.Float64Range(0, 1000))
}

func TestProperty_MigrationIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("migrating twice equals migrating once", prop.ForAll(
		func(flat map[string]float64) bool {
			raw, err := json.Marshal(flat)
			if err != nil {
				return false
			}
			once, changed, err := MigrateMFAPrices(raw)
			if err != nil || !changed {
				return false
			}
			twice, changedAgain, err := MigrateMFAPrices(once)
			return err == nil && !changedAgain && bytes.Equal(once, twice)
		},
		genFlatTable(),
	))

	properties.Property("buy keeps legacy values and sell is 90% of buy", prop.ForAll(
		func(flat map[string]float64) bool {
			raw, _ := json.Marshal(flat)
			out, _, err := MigrateMFAPrices(raw)
			if err != nil {
				return false
			}
			var got nestedMFAPrices
			if err := json.Unmarshal(out, &got); err != nil {
				return false
			}
			if len(got.Buy) != len(flat) || len(got.Sell) != len(flat) {
				return false
			}
			for rank, price := range flat {
				if got.Buy[rank] != price {
					return false
				}
				if math.Abs(got.Sell[rank]-price*SellRatio) > 1e-9 {
					return false
				}
			}
			return true
		},
		genFlatTable(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
