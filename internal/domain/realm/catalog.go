// Package realm holds the static cultivation ladder.
package realm

type Category string

const (
	CategoryMortal        Category = "mortal"
	CategoryQiCultivation Category = "qi_cultivation"
	CategoryImmortal      Category = "immortal"
	CategoryEmperor       Category = "emperor"
	CategorySupreme       Category = "supreme"
)

var categoryOrder = []Category{
	CategoryMortal,
	CategoryQiCultivation,
	CategoryImmortal,
	CategoryEmperor,
	CategorySupreme,
}

// Ordinal is the 1-based rank of the category, 0 for unknown values.
func (c Category) Ordinal() int {
	for i, candidate := range categoryOrder {
		if candidate == c {
			return i + 1
		}
	}
	return 0
}

type Realm struct {
	Index              int      `json:"index"`
	Name               string   `json:"name"`
	RequiredExperience int      `json:"required_experience"`
	PowerMultiplier    float64  `json:"power_multiplier"`
	Category           Category `json:"category"`
}

// Catalog is immutable after construction; copies are handed out on every read.
type Catalog struct {
	realms []Realm
}

func NewCatalog(realms []Realm) Catalog {
	out := make([]Realm, len(realms))
	copy(out, realms)
	for i := range out {
		out[i].Index = i
	}
	return Catalog{realms: out}
}

func (c Catalog) Len() int {
	return len(c.realms)
}

func (c Catalog) ByIndex(i int) (Realm, bool) {
	if i < 0 || i >= len(c.realms) {
		return Realm{}, false
	}
	return c.realms[i], true
}

func (c Catalog) Next(i int) (Realm, bool) {
	if i < 0 {
		return Realm{}, false
	}
	return c.ByIndex(i + 1)
}

func (c Catalog) Final() (Realm, bool) {
	return c.ByIndex(len(c.realms) - 1)
}

func (c Catalog) IsFinal(i int) bool {
	return len(c.realms) > 0 && i == len(c.realms)-1
}

func (c Catalog) All() []Realm {
	out := make([]Realm, len(c.realms))
	copy(out, c.realms)
	return out
}

// CategoryOffset is the position of realm i inside its category, counting from 0.
func (c Catalog) CategoryOffset(i int) int {
	r, ok := c.ByIndex(i)
	if !ok {
		return 0
	}
	offset := 0
	for j := i - 1; j >= 0; j-- {
		if c.realms[j].Category != r.Category {
			break
		}
		offset++
	}
	return offset
}

// Clamp maps any index into the catalog bounds.
func (c Catalog) Clamp(i int) int {
	if i < 0 || len(c.realms) == 0 {
		return 0
	}
	if i >= len(c.realms) {
		return len(c.realms) - 1
	}
	return i
}
