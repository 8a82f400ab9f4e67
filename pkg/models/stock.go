package models

// StockPartition is the per-guild slice of the "stock" collection: category
// name -> items in the order they were added.
type StockPartition map[string][]string
