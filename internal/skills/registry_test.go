package skills

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSkill struct {
	name     string
	phrases  []string
	resp     Response
	err      error
	executed int
}

func (s *stubSkill) Name() string { return s.name }
func (s *stubSkill) Descriptions() []string { return s.phrases }
func (s *stubSkill) Matches(command string) bool {
	return matchesAny(command, s.phrases)
}
func (s *stubSkill) Execute(ctx context.Context, req Request) (Response, error) {
	s.executed++
	return s.resp, s.err
}

func TestRegistryDispatchFirstMatchWins(t *testing.T) {
	first := &stubSkill{name: "first", phrases: []string{"lys"}, resp: Response{Text: "fra first"}}
	second := &stubSkill{name: "second", phrases: []string{"lys"}, resp: Response{Text: "fra second"}}

	registry := NewRegistry(logrus.New(), func() []Skill {
		return []Skill{first, second}
	})

	resp, matched := registry.Dispatch(context.Background(), Request{Command: "slå på lys"})
	require.True(t, matched)

	assert.Equal(t, "fra first", resp.Text)
	assert.Equal(t, "first", resp.Skill)
	assert.Equal(t, 1, first.executed)
	assert.Equal(t, 0, second.executed)
}

func TestRegistryDispatchNoMatch(t *testing.T) {
	registry := NewRegistry(logrus.New(), func() []Skill {
		return []Skill{&stubSkill{name: "lights", phrases: []string{"lys"}}}
	})

	resp, matched := registry.Dispatch(context.Background(), Request{Command: "fortell meg en vits"})
	assert.False(t, matched)
	assert.Empty(t, resp.Text)
}

func TestRegistryDispatchErrorBecomesApology(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	failing := &stubSkill{name: "lights", phrases: []string{"lys"}, err: errors.New("boom")}
	registry := NewRegistry(logrus.New(), func() []Skill {
		return []Skill{failing}
	})

	resp, matched := registry.Dispatch(context.Background(), Request{Command: "slå på lys"})
	require.True(t, matched)

	assert.Equal(t, "Beklager, noe gikk galt. Prøv igjen.", resp.Text)
	assert.Equal(t, "lights", resp.Skill)
	assert.NotContains(t, resp.Text, "boom")
	assert.NotContains(t, resp.Text, "lights")
}

func TestRegistryMatchesAny(t *testing.T) {
	registry := NewRegistry(logrus.New(), func() []Skill {
		return []Skill{&stubSkill{name: "flows", phrases: []string{"kveldsrutine", "morgenrutine"}}}
	})

	assert.True(t, registry.MatchesAny("kveldsrutine"))
	assert.False(t, registry.MatchesAny("fortell meg en vits"))
}

func TestRegistryReloadSwapsSkillSet(t *testing.T) {
	generation := 0
	registry := NewRegistry(logrus.New(), func() []Skill {
		generation++
		if generation == 1 {
			return []Skill{&stubSkill{name: "old", phrases: []string{"lys"}}}
		}
		return []Skill{
			&stubSkill{name: "new_a", phrases: []string{"lys"}},
			&stubSkill{name: "new_b", phrases: []string{"flow"}},
		}
	})

	require.Len(t, registry.Skills(), 1)

	registry.Reload()

	loaded := registry.Skills()
	require.Len(t, loaded, 2)
	assert.Equal(t, "new_a", loaded[0].Name())
	assert.Equal(t, "new_b", loaded[1].Name())

	_, ok := registry.Get("old")
	assert.False(t, ok)
}

func TestRegistryRegisterOverwritesInPlace(t *testing.T) {
	registry := NewRegistry(logrus.New(), func() []Skill {
		return []Skill{
			&stubSkill{name: "lights", phrases: []string{"lys"}, resp: Response{Text: "gammel"}},
			&stubSkill{name: "flows", phrases: []string{"flow"}},
		}
	})

	registry.Register(&stubSkill{name: "lights", phrases: []string{"lys"}, resp: Response{Text: "ny"}})

	loaded := registry.Skills()
	require.Len(t, loaded, 2)
	assert.Equal(t, "lights", loaded[0].Name())

	resp, matched := registry.Dispatch(context.Background(), Request{Command: "slå på lys"})
	require.True(t, matched)
	assert.Equal(t, "ny", resp.Text)
}
