package npc

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/turnbattle/internal/game/dice"
)

// CurrencyDrop is the range of gold an enemy can drop.
type CurrencyDrop struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// ItemDrop is one item entry in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// LootTable lists the possible drops for a template.
type LootTable struct {
	Currency *CurrencyDrop `yaml:"currency"`
	Items    []ItemDrop    `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Precondition: lt must not be nil.
// Postcondition: Returns nil iff all currency and item constraints hold;
// an empty loot table is valid.
func (lt *LootTable) Validate() error {
	if lt.Currency != nil {
		if lt.Currency.Min < 0 {
			return fmt.Errorf("loot table: currency min must be >= 0, got %d", lt.Currency.Min)
		}
		if lt.Currency.Min > lt.Currency.Max {
			return fmt.Errorf("loot table: currency min (%d) must be <= max (%d)", lt.Currency.Min, lt.Currency.Max)
		}
	}
	for i, item := range lt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}

// LootItem is a single dropped item.
type LootItem struct {
	ItemDefID  string
	InstanceID string
	Quantity   int
}

// LootResult holds the loot rolled for one defeated enemy.
type LootResult struct {
	Currency int
	Items    []LootItem
}

// GenerateLoot rolls lt with src.
//
// Draw order: the currency amount, then per item its chance and quantity.
//
// Precondition: lt must have passed Validate.
// Postcondition: Currency is in [Min, Max] when set; each dropped item's
// Quantity is in [MinQty, MaxQty].
func GenerateLoot(lt LootTable, src dice.Source) LootResult {
	var result LootResult
	if lt.Currency != nil && lt.Currency.Max > 0 {
		result.Currency = lt.Currency.Min
		if spread := lt.Currency.Max - lt.Currency.Min; spread > 0 {
			result.Currency += src.Intn(spread + 1)
		}
	}
	for _, item := range lt.Items {
		if src.Float64() >= item.Chance {
			continue
		}
		qty := item.MinQty
		if spread := item.MaxQty - item.MinQty; spread > 0 {
			qty += src.Intn(spread + 1)
		}
		result.Items = append(result.Items, LootItem{
			ItemDefID:  item.ItemID,
			InstanceID: uuid.New().String(),
			Quantity:   qty,
		})
	}
	return result
}
