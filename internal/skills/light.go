package skills

import (
	"context"
	"fmt"
	"strings"

	"HomeyChat/pkg/homey"
	"HomeyChat/pkg/log"
	"HomeyChat/pkg/nlp"

	"github.com/sirupsen/logrus"
)

// LightSkill drives one dimmable light through the hub's onoff and dim
// capabilities. The skill itself is stateless between calls; the
// physical device holds the state.
type LightSkill struct {
	name       string
	deviceID   string
	deviceName string // user-facing, e.g. "Taklyset i stuen"
	room       string // cleaned room key, e.g. "stue"
	defaultDev bool   // sole light: commands without a room still apply
	phrases    []string
	hub        homey.ItfHomey
	processor  nlp.IProcessor
	logger     *logrus.Logger
}

type LightConfig struct {
	Name       string
	DeviceID   string
	DeviceName string
	Room       string
	Default    bool
	Phrases    []string
}

func NewLightSkill(cfg LightConfig, hub homey.ItfHomey, processor nlp.IProcessor, logger *logrus.Logger) *LightSkill {
	return &LightSkill{
		name:       cfg.Name,
		deviceID:   cfg.DeviceID,
		deviceName: cfg.DeviceName,
		room:       cfg.Room,
		defaultDev: cfg.Default,
		phrases:    cfg.Phrases,
		hub:        hub,
		processor:  processor,
		logger:     logger,
	}
}

func (s *LightSkill) Name() string {
	return s.name
}

func (s *LightSkill) Descriptions() []string {
	return s.phrases
}

func (s *LightSkill) Matches(command string) bool {
	return matchesAny(command, s.phrases)
}

func (s *LightSkill) Execute(ctx context.Context, req Request) (Response, error) {
	cmd := s.processor.Parse(req.Command)

	// A non-default light needs the room named before anything happens.
	if !s.defaultDev && cmd.Room == "" {
		return Response{
			Text:               "Hvilket rom gjelder det?",
			NeedsClarification: true,
			PendingCommand:     req.Command,
		}, nil
	}

	switch cmd.Action {
	case nlp.ActionDim:
		if !cmd.HasPercent {
			// Side-effect free: no hub call until the value arrives.
			return Response{
				Text:               fmt.Sprintf("Hvor mange prosent vil du dimme %s til?", strings.ToLower(s.deviceName)),
				NeedsClarification: true,
				PendingCommand:     req.Command,
			}, nil
		}
		return s.dim(ctx, cmd.Percent), nil

	case nlp.ActionTurnOn:
		return s.setOnOff(ctx, true), nil

	case nlp.ActionTurnOff:
		return s.setOnOff(ctx, false), nil

	default:
		return Response{
			Text:               fmt.Sprintf("Vil du slå på, slå av, eller dimme %s?", strings.ToLower(s.deviceName)),
			NeedsClarification: true,
			PendingCommand:     req.Command,
		}, nil
	}
}

func (s *LightSkill) setOnOff(ctx context.Context, on bool) Response {
	if err := s.hub.SetOnOff(ctx, s.deviceID, on); err != nil {
		return s.apology(ctx, err)
	}

	state := "slått av"
	if on {
		state = "slått på"
	}
	return Response{Text: fmt.Sprintf("%s er %s", s.deviceName, state)}
}

// dim treats 0% as an off command; anything else becomes a 0..1 dim
// value on the hub.
func (s *LightSkill) dim(ctx context.Context, percent int) Response {
	if percent == 0 {
		return s.setOnOff(ctx, false)
	}

	if err := s.hub.SetDim(ctx, s.deviceID, float64(percent)/100); err != nil {
		return s.apology(ctx, err)
	}

	return Response{Text: fmt.Sprintf("%s er satt til %d%%", s.deviceName, percent)}
}

// apology logs the cause and hands the user a fixed message. The raw
// upstream error never reaches the chat response.
func (s *LightSkill) apology(ctx context.Context, err error) Response {
	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"skill":  s.name,
		"device": s.deviceID,
		"error":  err.Error(),
	}).Error("Hub call failed")

	return Response{
		Text: fmt.Sprintf("Beklager, jeg fikk ikke styrt %s akkurat nå.", strings.ToLower(s.deviceName)),
	}
}
