package skills

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"HomeyChat/internal/entity"
	"HomeyChat/pkg/nlp"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlowSkill(t *testing.T, hub *fakeHub) *FlowSkill {
	t.Helper()
	logger := logrus.New()
	catalog := NewFlowCatalog(hub, logger, filepath.Join(t.TempDir(), "flows.json"))
	return NewFlowSkill(catalog, hub, nlp.New(), logger)
}

func TestFlowSkillListEmpty(t *testing.T) {
	skill := newTestFlowSkill(t, &fakeHub{})

	resp, err := skill.Execute(context.Background(), Request{Command: "vis flows"})
	require.NoError(t, err)

	assert.Equal(t, "Ingen flows funnet.", resp.Text)
}

func TestFlowSkillListFlows(t *testing.T) {
	hub := &fakeHub{flows: []entity.Flow{
		{ID: "flow-1", Name: "Kveldsrutine"},
		{ID: "flow-2", Name: "Morgenrutine"},
	}}
	skill := newTestFlowSkill(t, hub)

	resp, err := skill.Execute(context.Background(), Request{Command: "hvilke flows har jeg"})
	require.NoError(t, err)

	assert.Contains(t, resp.Text, "Tilgjengelige flows (2):")
	assert.Contains(t, resp.Text, "- Kveldsrutine")
	assert.Contains(t, resp.Text, "- Morgenrutine")
}

func TestFlowSkillTriggersExactMatch(t *testing.T) {
	hub := &fakeHub{flows: []entity.Flow{
		{ID: "flow-1", Name: "Kveldsrutine"},
		{ID: "flow-2", Name: "Morgenrutine"},
	}}
	skill := newTestFlowSkill(t, hub)

	resp, err := skill.Execute(context.Background(), Request{Command: "kjør kveldsrutine"})
	require.NoError(t, err)

	assert.Equal(t, "Kjørte flow: Kveldsrutine", resp.Text)
	assert.Equal(t, []string{"flow-1"}, hub.triggered)
}

func TestFlowSkillTriggersFuzzyMatch(t *testing.T) {
	hub := &fakeHub{flows: []entity.Flow{
		{ID: "flow-1", Name: "Kveldsrutine"},
		{ID: "flow-2", Name: "Morgenrutine"},
	}}
	skill := newTestFlowSkill(t, hub)

	resp, err := skill.Execute(context.Background(), Request{Command: "kjør kveldsrutina"})
	require.NoError(t, err)

	assert.Equal(t, "Kjørte flow: Kveldsrutine", resp.Text)
	assert.Equal(t, []string{"flow-1"}, hub.triggered)
}

func TestFlowSkillAmbiguousMatchAsks(t *testing.T) {
	hub := &fakeHub{flows: []entity.Flow{
		{ID: "flow-1", Name: "Kveldsrutine"},
		{ID: "flow-2", Name: "Morgenrutine"},
	}}
	skill := newTestFlowSkill(t, hub)

	resp, err := skill.Execute(context.Background(), Request{Command: "kjør morgenrutine og kveldsrutine"})
	require.NoError(t, err)

	assert.True(t, resp.NeedsClarification)
	assert.Contains(t, resp.Text, "Flere flows matcher")
	assert.Empty(t, hub.triggered)
}

func TestFlowSkillNoMatchListsAvailable(t *testing.T) {
	hub := &fakeHub{flows: []entity.Flow{
		{ID: "flow-1", Name: "Kveldsrutine"},
	}}
	skill := newTestFlowSkill(t, hub)

	resp, err := skill.Execute(context.Background(), Request{Command: "kjør noe helt annet"})
	require.NoError(t, err)

	assert.Contains(t, resp.Text, "Fant ingen flow som matcher")
	assert.Contains(t, resp.Text, "Kveldsrutine")
	assert.Empty(t, hub.triggered)
}

func TestFlowSkillTriggerFailureApologizes(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	hub := &fakeHub{flows: []entity.Flow{
		{ID: "flow-1", Name: "Kveldsrutine"},
	}}
	skill := newTestFlowSkill(t, hub)

	// Warm the catalog before the hub starts failing.
	skill.catalog.Flows(context.Background())
	hub.err = errors.New("hub unreachable")

	resp, err := skill.Execute(context.Background(), Request{Command: "kjør kveldsrutine"})
	require.NoError(t, err)

	assert.Equal(t, "Beklager, jeg fikk ikke kjørt flowen Kveldsrutine akkurat nå.", resp.Text)
	assert.NotContains(t, resp.Text, "hub unreachable")
}

func TestFlowSkillMatchesCatalogNames(t *testing.T) {
	hub := &fakeHub{flows: []entity.Flow{
		{ID: "flow-1", Name: "Kveldsrutine"},
	}}
	skill := newTestFlowSkill(t, hub)

	assert.True(t, skill.Matches("kveldsrutine takk"))
	assert.False(t, skill.Matches("fortell meg en vits"))
}
