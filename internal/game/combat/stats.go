package combat

// Stats is the base stat set every combatant carries.
type Stats struct {
	MaxHP        int     `yaml:"max_hp"`
	MaxMP        int     `yaml:"max_mp"`
	Attack       int     `yaml:"attack"`
	Defense      int     `yaml:"defense"`
	Magic        int     `yaml:"magic"`
	MagicDefense int     `yaml:"magic_defense"`
	Speed        int     `yaml:"speed"`
	Luck         int     `yaml:"luck"`
	Accuracy     int     `yaml:"accuracy"`
	Evasion      int     `yaml:"evasion"`
	CriticalRate float64 `yaml:"critical_rate"`
}

// Base returns s. It lets any struct embedding Stats satisfy StatBlock.
func (s Stats) Base() Stats { return s }

// StatBlock is any stat bag that contains at least the base set. Games extend
// it by embedding Stats in their own struct; the engine only reads Base().
type StatBlock interface {
	Base() Stats
}
