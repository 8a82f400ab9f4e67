package models

import "strings"

// WalletsPartition maps an upper-cased currency code (BTC, LTC, ...) to an address.
type WalletsPartition map[string]string

// CurrencyCode normalises a user-supplied currency name into the stored key.
func CurrencyCode(crypto string) string {
	return strings.ToUpper(strings.TrimSpace(crypto))
}
