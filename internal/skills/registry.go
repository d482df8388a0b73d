package skills

import (
	"context"
	"sync"

	"HomeyChat/pkg/log"

	"github.com/sirupsen/logrus"
)

// Factory builds the full skill set from scratch. Reload calls it again
// and swaps the result in atomically, so readers either see the old set
// or the new one, never a half-built mapping.
type Factory func() []Skill

type Registry struct {
	mu      sync.RWMutex
	ordered []Skill
	byName  map[string]Skill
	factory Factory
	logger  *logrus.Logger
}

func NewRegistry(logger *logrus.Logger, factory Factory) *Registry {
	r := &Registry{
		factory: factory,
		logger:  logger,
	}
	r.Reload()
	return r
}

// Register inserts a skill, overwriting any earlier one with the same
// name while keeping its original dispatch position.
func (r *Registry) Register(skill Skill) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[skill.Name()]; exists {
		for i, s := range r.ordered {
			if s.Name() == skill.Name() {
				r.ordered[i] = skill
				break
			}
		}
	} else {
		r.ordered = append(r.ordered, skill)
	}
	r.byName[skill.Name()] = skill
}

// Reload rebuilds every skill from the factory and replaces the set.
// Skill instances handed out before the reload are never used again by
// the registry.
func (r *Registry) Reload() {
	fresh := r.factory()

	ordered := make([]Skill, 0, len(fresh))
	byName := make(map[string]Skill, len(fresh))
	for _, skill := range fresh {
		if _, exists := byName[skill.Name()]; exists {
			for i, s := range ordered {
				if s.Name() == skill.Name() {
					ordered[i] = skill
					break
				}
			}
		} else {
			ordered = append(ordered, skill)
		}
		byName[skill.Name()] = skill
	}

	r.mu.Lock()
	r.ordered = ordered
	r.byName = byName
	r.mu.Unlock()

	r.logger.WithField("skills", len(byName)).Info("Skill registry loaded")
}

// Skills returns a snapshot of the current skill set in dispatch order.
func (r *Registry) Skills() []Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]Skill, len(r.ordered))
	copy(snapshot, r.ordered)
	return snapshot
}

// MatchesAny reports whether some skill claims the command, without
// executing anything. Used to decide if a clarification answer can
// stand on its own as a command.
func (r *Registry) MatchesAny(command string) bool {
	for _, skill := range r.Skills() {
		if skill.Matches(command) {
			return true
		}
	}
	return false
}

func (r *Registry) Get(name string) (Skill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skill, ok := r.byName[name]
	return skill, ok
}

// Dispatch resolves a command to at most one skill: registration order,
// first match wins. The second return value is false when no skill
// matched and the caller should fall back to the language model.
//
// Errors never escape this boundary; a failing skill produces an
// apology string so the chat turn stays responsive.
func (r *Registry) Dispatch(ctx context.Context, req Request) (Response, bool) {
	for _, skill := range r.Skills() {
		if !skill.Matches(req.Command) {
			continue
		}

		log.WithRequestID(ctx).WithFields(logrus.Fields{
			"skill":   skill.Name(),
			"command": req.Command,
		}).Info("Dispatching command to skill")

		resp, err := skill.Execute(ctx, req)
		if err != nil {
			log.WithRequestID(ctx).WithFields(logrus.Fields{
				"skill": skill.Name(),
				"error": err.Error(),
			}).Error("Skill execution failed")
			// The internal skill name stays in the log; users get a
			// generic apology.
			return Response{
				Text:  "Beklager, noe gikk galt. Prøv igjen.",
				Skill: skill.Name(),
			}, true
		}

		resp.Skill = skill.Name()
		return resp, true
	}

	return Response{}, false
}
