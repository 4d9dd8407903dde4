package bootstrap_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/turnbattle/internal/bootstrap"
	"github.com/cory-johannsen/turnbattle/internal/config"
	"github.com/cory-johannsen/turnbattle/internal/game/battle"
	"github.com/cory-johannsen/turnbattle/internal/game/combat"
	"github.com/cory-johannsen/turnbattle/internal/game/dice"
	"github.com/cory-johannsen/turnbattle/internal/game/inventory"
)

// shippedConfig points every content directory at the repository's content tree.
func shippedConfig() config.Config {
	root := filepath.Join("..", "..", "content")
	cfg := config.Default()
	cfg.Content = config.ContentConfig{
		SkillsDir:        filepath.Join(root, "skills"),
		ConditionsDir:    filepath.Join(root, "conditions"),
		NPCsDir:          filepath.Join(root, "npcs"),
		ItemsDir:         filepath.Join(root, "items"),
		AIDir:            filepath.Join(root, "ai"),
		ScriptsDir:       filepath.Join(root, "scripts"),
		InstructionLimit: 10_000,
	}
	return cfg
}

func loadShipped(t *testing.T) *bootstrap.Runtime {
	t.Helper()
	rt, err := bootstrap.LoadWithSource(shippedConfig(), dice.NewSeededSource(42), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt
}

func TestLoad_ShippedContent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	rt, err := bootstrap.LoadWithSource(shippedConfig(), dice.NewSeededSource(1), zap.New(core))
	require.NoError(t, err)
	defer rt.Close()

	assert.Len(t, rt.Skills.All(), 7, "six loaded plus the basic attack")
	assert.Len(t, rt.Conditions.All(), 3)
	assert.Len(t, rt.Templates.All(), 4)
	assert.Len(t, rt.Items.AllItems(), 4)
	assert.Equal(t, 3, rt.AI.Len())
	assert.Contains(t, rt.Scripts.Keys(), "shaman")
	assert.Equal(t, 1, logs.FilterMessage("content loaded").Len())
}

func TestLoad_EmptyContent(t *testing.T) {
	cfg := config.Default()
	cfg.Content = config.ContentConfig{InstructionLimit: 100}
	rt, err := bootstrap.Load(cfg, nil)
	require.NoError(t, err)
	defer rt.Close()

	assert.Len(t, rt.Skills.All(), 1)
	assert.Empty(t, rt.Templates.All())
	_, err = rt.SpawnEnemies([]string{"goblin"})
	assert.Error(t, err)
}

func TestLoad_MissingDirectory(t *testing.T) {
	cfg := config.Default()
	cfg.Content = config.ContentConfig{SkillsDir: filepath.Join(t.TempDir(), "nope"), InstructionLimit: 100}
	_, err := bootstrap.Load(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading skills")
}

func TestLoad_BrokenReferences(t *testing.T) {
	dir := t.TempDir()
	npcs := filepath.Join(dir, "npcs")
	items := filepath.Join(dir, "items")
	require.NoError(t, os.MkdirAll(npcs, 0o755))
	require.NoError(t, os.MkdirAll(items, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(npcs, "imp.yaml"), []byte(`id: imp
name: Imp
level: 1
stats:
  max_hp: 10
skills: [hellfire]
ai_domain: trickster
loot:
  items:
    - item: horn
      chance: 1
      min_qty: 1
      max_qty: 1
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(items, "salts.yaml"), []byte(`id: salts
name: Smelling Salts
target: single_ally
cures: [sleep]
`), 0o644))

	cfg := config.Default()
	cfg.Content = config.ContentConfig{NPCsDir: npcs, ItemsDir: items, InstructionLimit: 100}
	_, err := bootstrap.Load(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bootstrap.ErrBrokenReference))
	for _, want := range []string{`skill "hellfire"`, `ai domain "trickster"`, `item "horn"`, `condition "sleep"`} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestSpawnEnemies(t *testing.T) {
	rt := loadShipped(t)
	enemies, err := rt.SpawnEnemies([]string{"goblin", "goblin", "orc"})
	require.NoError(t, err)
	require.Len(t, enemies, 3)
	assert.Equal(t, "Goblin A", enemies[0].Name)
	assert.Equal(t, "Goblin B", enemies[1].Name)
	assert.Equal(t, "brawler", enemies[2].AIDomain)
	require.Len(t, enemies[2].Skills, 1)
	assert.Equal(t, "smash", enemies[2].Skills[0].ID)
}

func party() (hero, mage *combat.Combatant) {
	hero = combat.NewCombatant("hero", "Hero", combat.SidePlayer, combat.Stats{MaxHP: 100, Attack: 30, Defense: 10, Speed: 20})
	mage = combat.NewCombatant("mage", "Mage", combat.SidePlayer, combat.Stats{MaxHP: 20, MaxMP: 40, Magic: 20, Speed: 10})
	return hero, mage
}

func snapshot(party, enemies []*combat.Combatant) battle.State {
	roster := append(append([]*combat.Combatant(nil), party...), enemies...)
	for i, c := range roster {
		c.Position = i
	}
	return battle.State{Phase: battle.PhaseEnemyTurn, Turn: 1, Party: party, Enemies: enemies, TurnOrder: roster, CurrentActor: -1}
}

func TestPolicy_GlobalScripts(t *testing.T) {
	rt := loadShipped(t)
	enemies, err := rt.SpawnEnemies([]string{"orc"})
	require.NoError(t, err)
	orc := enemies[0]
	hero, mage := party()
	mage.SetHP(10)
	s := snapshot([]*combat.Combatant{hero, mage}, enemies)

	a, err := rt.Policy.ChooseAction(orc, s)
	require.NoError(t, err)
	assert.Equal(t, combat.ActionSkill, a.Type)
	require.NotNil(t, a.Skill)
	assert.Equal(t, "smash", a.Skill.ID)
	require.Len(t, a.Targets, 1)
	assert.Equal(t, "mage", a.Targets[0].ID)

	orc.SetMP(0)
	a, err = rt.Policy.ChooseAction(orc, s)
	require.NoError(t, err)
	assert.Equal(t, combat.ActionAttack, a.Type)
	require.Len(t, a.Targets, 1)
	assert.Equal(t, "hero", a.Targets[0].ID, "punches the nearest foe")
}

func TestPolicy_DomainScripts(t *testing.T) {
	rt := loadShipped(t)
	enemies, err := rt.SpawnEnemies([]string{"shaman"})
	require.NoError(t, err)
	shaman := enemies[0]
	hero, mage := party()
	s := snapshot([]*combat.Combatant{hero, mage}, enemies)

	a, err := rt.Policy.ChooseAction(shaman, s)
	require.NoError(t, err)
	require.NotNil(t, a.Skill)
	assert.Equal(t, "lullaby", a.Skill.ID)
	assert.Equal(t, "hero", a.Targets[0].ID)

	shaman.SetHP(10)
	a, err = rt.Policy.ChooseAction(shaman, s)
	require.NoError(t, err)
	require.NotNil(t, a.Skill)
	assert.Equal(t, "cure", a.Skill.ID)
	assert.Equal(t, shaman.ID, a.Targets[0].ID)
}

func TestNewBattle_PlaysToVictoryAndPays(t *testing.T) {
	rt := loadShipped(t)
	pouch := inventory.NewPouch(rt.Items)
	require.NoError(t, pouch.Add("potion", 2))

	b, err := rt.NewBattle(pouch)
	require.NoError(t, err)
	got, ok := rt.Battles.Get(b.ID())
	require.True(t, ok)
	assert.Same(t, b, got)

	hero := combat.NewCombatant("hero", "Hero", combat.SidePlayer, combat.Stats{MaxHP: 500, Attack: 200, Defense: 50, Speed: 50, Accuracy: 100})
	enemies, err := rt.SpawnEnemies([]string{"slime", "slime"})
	require.NoError(t, err)

	s, err := b.Start([]*combat.Combatant{hero}, enemies)
	require.NoError(t, err)
	for i := 0; i < 50 && s.Phase == battle.PhasePlayerTurn; i++ {
		var target string
		for _, e := range s.Enemies {
			if e.IsAlive() {
				target = e.ID
				break
			}
		}
		require.NoError(t, b.SelectCommand(combat.ActionAttack))
		require.NoError(t, b.SelectTarget(target))
		s, err = b.ConfirmCommand()
		require.NoError(t, err)
	}
	require.Equal(t, battle.PhaseVictory, s.Phase)

	r, shares := rt.Rewards(s)
	assert.Equal(t, 6, r.Experience)
	assert.Equal(t, 2, r.Gold)
	assert.Empty(t, r.Items)
	assert.Equal(t, 6, shares[0].Experience)
	assert.Equal(t, "hero", shares[0].CombatantID)
}

func TestRewards_NotWon(t *testing.T) {
	rt := loadShipped(t)
	enemies, err := rt.SpawnEnemies([]string{"orc"})
	require.NoError(t, err)
	enemies[0].SetHP(0)
	hero, _ := party()
	s := snapshot([]*combat.Combatant{hero}, enemies)
	s.Phase = battle.PhaseEscaped

	r, shares := rt.Rewards(s)
	assert.Zero(t, r)
	assert.Nil(t, shares)
}
