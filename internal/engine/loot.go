package engine

import "math/rand"

// LootItem identifies a droppable item kind.
type LootItem string

const (
	LootPotion      LootItem = "potion"
	LootTreasureMap LootItem = "treasure_map"
	LootCharm       LootItem = "charm"
	LootGemstone    LootItem = "gemstone"
	LootDateToken   LootItem = "date_token"
)

// LootDrop is a dropped item with an amount.
type LootDrop struct {
	Item   LootItem `json:"item"`
	Amount int      `json:"amount"`
}

type lootEntry struct {
	Item   LootItem
	Weight int
}

type lootTable []lootEntry

// Category tables. Weights are relative within a table.
var (
	physicalLoot = lootTable{
		{Item: LootPotion, Weight: 50},
		{Item: LootCharm, Weight: 30},
		{Item: LootGemstone, Weight: 20},
	}
	socialLoot = lootTable{
		{Item: LootDateToken, Weight: 55},
		{Item: LootCharm, Weight: 30},
		{Item: LootTreasureMap, Weight: 15},
	}
	defaultLoot = lootTable{
		{Item: LootPotion, Weight: 40},
		{Item: LootCharm, Weight: 25},
		{Item: LootTreasureMap, Weight: 20},
		{Item: LootGemstone, Weight: 15},
	}
)

func lootTableFor(c Category) lootTable {
	switch c {
	case CategoryPhysical, CategoryWellness:
		return physicalLoot
	case CategorySocial:
		return socialLoot
	default:
		return defaultLoot
	}
}

// roll picks one weighted entry from the table.
func (t lootTable) roll(rng *rand.Rand) LootDrop {
	total := 0
	for _, e := range t {
		total += e.Weight
	}
	if total == 0 {
		return LootDrop{Item: LootPotion, Amount: 1}
	}

	pick := rng.Intn(total)
	current := 0
	for _, e := range t {
		current += e.Weight
		if pick < current {
			return LootDrop{Item: e.Item, Amount: 1}
		}
	}
	return LootDrop{Item: t[len(t)-1].Item, Amount: 1}
}

// rollLoot is the independent drop check at the end of the reward
// pipeline. The chance is flat: reward multipliers never influence it.
func (s *Service) rollLoot(c Category) *LootDrop {
	if s.lootRand.Float64() >= s.bal.LootDropChance {
		return nil
	}
	d := lootTableFor(c).roll(s.lootRand)
	return &d
}
