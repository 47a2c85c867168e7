package components

// ItemKind identifies what an item is
type ItemKind int

const (
	ItemNone ItemKind = iota
	ItemSword
	ItemAxe
	ItemShield
	ItemShovel
	ItemBrick
	ItemSoulLink // binds its holder to a companion blade
	ItemShadeBlade
)

var itemKindNames = map[ItemKind]string{
	ItemNone:       "none",
	ItemSword:      "sword",
	ItemAxe:        "axe",
	ItemShield:     "shield",
	ItemShovel:     "shovel",
	ItemBrick:      "brick",
	ItemSoulLink:   "soul_link",
	ItemShadeBlade: "shade_blade",
}

func (k ItemKind) String() string {
	if s, ok := itemKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseItemKind maps a name back to its kind
func ParseItemKind(s string) (ItemKind, bool) {
	for k, name := range itemKindNames {
		if name == s {
			return k, true
		}
	}
	return ItemNone, false
}

// Impales reports whether thrown items of this kind stick in their target
func (k ItemKind) Impales() bool {
	return k == ItemSword || k == ItemAxe || k == ItemShadeBlade
}

// Item is a stack of one
type Item struct {
	Kind ItemKind
	Name string
}

// Empty reports whether this is the empty hand
func (i Item) Empty() bool {
	return i.Kind == ItemNone
}
