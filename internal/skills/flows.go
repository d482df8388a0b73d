package skills

import (
	"context"
	"fmt"
	"strings"

	"HomeyChat/internal/entity"
	"HomeyChat/pkg/homey"
	"HomeyChat/pkg/log"
	"HomeyChat/pkg/nlp"

	"github.com/sirupsen/logrus"
)

// FlowSkill lists and triggers the hub's named automations. Its trigger
// surface is data-dependent: the static phrases below are unioned with
// every catalog display name, so a catalog refresh can make previously
// unmatched text start matching.
type FlowSkill struct {
	catalog   *FlowCatalog
	hub       homey.ItfHomey
	processor nlp.IProcessor
	logger    *logrus.Logger
}

var flowPhrases = []string{
	"flow", "flows", "flyt",
	"automation", "automatisering",
	"kjør flow", "start flow", "kjør automation",
	"vis flows", "liste flows", "hvilke flows",
}

func NewFlowSkill(catalog *FlowCatalog, hub homey.ItfHomey, processor nlp.IProcessor, logger *logrus.Logger) *FlowSkill {
	return &FlowSkill{
		catalog:   catalog,
		hub:       hub,
		processor: processor,
		logger:    logger,
	}
}

func (s *FlowSkill) Name() string {
	return "homey_flows"
}

func (s *FlowSkill) Descriptions() []string {
	descriptions := make([]string, 0, len(flowPhrases))
	descriptions = append(descriptions, flowPhrases...)

	for _, flow := range s.catalog.Flows(context.Background()) {
		descriptions = append(descriptions, strings.ToLower(flow.Name))
	}
	return descriptions
}

func (s *FlowSkill) Matches(command string) bool {
	return matchesAny(command, s.Descriptions())
}

func (s *FlowSkill) Execute(ctx context.Context, req Request) (Response, error) {
	command := strings.ToLower(req.Command)
	flows := s.catalog.Flows(ctx)

	if isListRequest(command) {
		return Response{Text: s.listFlows(flows)}, nil
	}

	return s.triggerMatching(ctx, req.Command, flows), nil
}

func isListRequest(command string) bool {
	hasVerb := false
	for _, verb := range []string{"vis", "list", "hvilke"} {
		if strings.Contains(command, verb) {
			hasVerb = true
			break
		}
	}
	if !hasVerb {
		return false
	}

	for _, noun := range []string{"flow", "flows", "automatisering"} {
		if strings.Contains(command, noun) {
			return true
		}
	}
	return false
}

func (s *FlowSkill) listFlows(flows []entity.Flow) string {
	if len(flows) == 0 {
		return "Ingen flows funnet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tilgjengelige flows (%d):\n", len(flows))
	for _, flow := range flows {
		fmt.Fprintf(&b, "- %s\n", flow.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

// triggerMatching fires exactly one automation. An exact name match or
// a single fuzzy survivor executes; several candidates produce a
// disambiguation question instead of a multi-trigger.
func (s *FlowSkill) triggerMatching(ctx context.Context, command string, flows []entity.Flow) Response {
	items := make([]nlp.Item, len(flows))
	for i, flow := range flows {
		items[i] = nlp.Item{ID: flow.ID, Name: flow.Name}
	}

	matches := s.processor.FindBestMatches(command, items)
	if len(matches) == 0 {
		return Response{Text: s.noMatchText(flows)}
	}

	var exact []nlp.Match
	for _, m := range matches {
		if m.Score == 1.0 {
			exact = append(exact, m)
		}
	}

	switch {
	case len(exact) == 1:
		return s.trigger(ctx, exact[0].Item)
	case len(exact) > 1:
		return Response{
			Text:               disambiguationText(exact),
			NeedsClarification: true,
			PendingCommand:     command,
		}
	case len(matches) == 1:
		return s.trigger(ctx, matches[0].Item)
	default:
		return Response{
			Text:               disambiguationText(matches),
			NeedsClarification: true,
			PendingCommand:     command,
		}
	}
}

func (s *FlowSkill) trigger(ctx context.Context, item nlp.Item) Response {
	if err := s.hub.TriggerFlow(ctx, item.ID); err != nil {
		log.WithRequestID(ctx).WithFields(logrus.Fields{
			"flow_id":   item.ID,
			"flow_name": item.Name,
			"error":     err.Error(),
		}).Error("Flow trigger failed")

		return Response{
			Text: fmt.Sprintf("Beklager, jeg fikk ikke kjørt flowen %s akkurat nå.", item.Name),
		}
	}

	return Response{Text: fmt.Sprintf("Kjørte flow: %s", item.Name)}
}

func (s *FlowSkill) noMatchText(flows []entity.Flow) string {
	if len(flows) == 0 {
		return "Fant ingen flow som matcher, og ingen flows er tilgjengelige."
	}

	names := make([]string, len(flows))
	for i, flow := range flows {
		names[i] = flow.Name
	}
	return fmt.Sprintf("Fant ingen flow som matcher. Tilgjengelige flows er: %s", strings.Join(names, ", "))
}

func disambiguationText(matches []nlp.Match) string {
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Item.Name
	}
	return fmt.Sprintf("Flere flows matcher: %s. Hvilken mener du?", strings.Join(names, ", "))
}
