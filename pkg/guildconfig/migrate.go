package guildconfig

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// SellRatio derives sell prices from legacy flat tables.
const SellRatio = 0.9

// ErrUnsafeMigration means a legacy table holds values that cannot be turned
// into prices. The table is left as it is.
var ErrUnsafeMigration = errors.New("legacy mfa_prices cannot be migrated safely")

type nestedMFAPrices struct {
	Buy  map[string]float64 `json:"buy"`
	Sell map[string]float64 `json:"sell"`
}

// IsLegacyMFAShape reports whether raw is a flat rank->price object, that is
// a JSON object with neither a "buy" nor a "sell" key.
func IsLegacyMFAShape(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return false
	}
	_, hasBuy := top["buy"]
	_, hasSell := top["sell"]
	return !hasBuy && !hasSell
}

// MigrateMFAPrices turns a legacy flat table into {buy, sell} with the flat
// values as buy prices and sell = buy * SellRatio. Input that is not legacy
// is returned unchanged with changed=false. When a legacy value is not a
// finite non-negative number the input is returned unchanged together with
// ErrUnsafeMigration.
func MigrateMFAPrices(raw json.RawMessage) (migrated json.RawMessage, changed bool, err error) {
	if !IsLegacyMFAShape(raw) {
		return raw, false, nil
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(raw, &flat); err != nil {
		return raw, false, fmt.Errorf("%w: %w", ErrUnsafeMigration, err)
	}

	out := nestedMFAPrices{
		Buy:  make(map[string]float64, len(flat)),
		Sell: make(map[string]float64, len(flat)),
	}
	for rank, value := range flat {
		price, err := legacyPrice(value)
		if err != nil {
			return raw, false, fmt.Errorf("%w: rank %q: %w", ErrUnsafeMigration, rank, err)
		}
		out.Buy[rank] = price
		out.Sell[rank] = price * SellRatio
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return raw, false, fmt.Errorf("encoding migrated prices: %w", err)
	}
	return encoded, true, nil
}

func legacyPrice(value json.RawMessage) (float64, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || !(trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9')) {
		return 0, fmt.Errorf("not a number: %s", trimmed)
	}
	var price float64
	if err := json.Unmarshal(trimmed, &price); err != nil {
		return 0, err
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, fmt.Errorf("out of range: %v", price)
	}
	return price, nil
}

// migratePartition applies MigrateMFAPrices to the mfa_prices field of a raw
// guild config, keeping every other field byte for byte.
func migratePartition(raw json.RawMessage) (json.RawMessage, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return raw, false, err
	}
	mfa, ok := fields["mfa_prices"]
	if !ok {
		return raw, false, nil
	}
	migrated, changed, err := MigrateMFAPrices(mfa)
	if err != nil || !changed {
		return raw, false, err
	}
	fields["mfa_prices"] = migrated
	out, err := json.Marshal(fields)
	if err != nil {
		return raw, false, err
	}
	return out, true, nil
}

// partitionNeedsMigration is the cheap check done on every read.
func partitionNeedsMigration(raw json.RawMessage) bool {
	var probe struct {
		MFAPrices json.RawMessage `json:"mfa_prices"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	return IsLegacyMFAShape(probe.MFAPrices)
}
