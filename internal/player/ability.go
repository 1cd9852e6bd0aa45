package player

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Ability is a capability that unlocks a terrain interaction.
type Ability int

const (
	Axe Ability = iota + 1
	Hammer
)

var abilityNames = map[Ability]string{
	Axe:    "axe",
	Hammer: "hammer",
}

func (a Ability) String() string {
	if name, ok := abilityNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ability(%d)", int(a))
}

// ParseAbility resolves a config name such as "axe".
func ParseAbility(name string) (Ability, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range abilityNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown ability %q", name)
}

// AbilitySet is the set of abilities a player currently holds.
type AbilitySet struct {
	set mapset.Set[Ability]
}

func NewAbilitySet(abilities ...Ability) AbilitySet {
	s := AbilitySet{set: mapset.New[Ability]()}
	for _, a := range abilities {
		s.set.Put(a)
	}
	return s
}

// ParseAbilitySet builds a set from config names.
func ParseAbilitySet(names []string) (AbilitySet, error) {
	s := NewAbilitySet()
	for _, name := range names {
		a, err := ParseAbility(name)
		if err != nil {
			return AbilitySet{}, err
		}
		s.Grant(a)
	}
	return s, nil
}

func (s AbilitySet) Has(a Ability) bool {
	return s.set.Has(a)
}

// Grant adds a. It reports whether the ability is new.
func (s AbilitySet) Grant(a Ability) bool {
	if s.set.Has(a) {
		return false
	}
	s.set.Put(a)
	return true
}

func (s AbilitySet) Revoke(a Ability) {
	s.set.Remove(a)
}

func (s AbilitySet) Len() int {
	return s.set.Size()
}

// List returns the abilities in a stable order.
func (s AbilitySet) List() []Ability {
	out := make([]Ability, 0, s.set.Size())
	s.set.Each(func(a Ability) {
		out = append(out, a)
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Names returns the ability names in the same order as List.
func (s AbilitySet) Names() []string {
	abilities := s.List()
	names := make([]string, len(abilities))
	for i, a := range abilities {
		names[i] = a.String()
	}
	return names
}
