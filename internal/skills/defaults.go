package skills

import (
	"os"

	"HomeyChat/pkg/homey"
	"HomeyChat/pkg/nlp"

	"github.com/sirupsen/logrus"
)

// DefaultFactory enumerates the skill set statically. Adding a skill
// means adding a constructor here; there is no runtime discovery.
func DefaultFactory(hub homey.ItfHomey, catalog *FlowCatalog, processor nlp.IProcessor, logger *logrus.Logger) Factory {
	return func() []Skill {
		return []Skill{
			NewLightSkill(LightConfig{
				Name:       "taklys_stue",
				DeviceID:   envOr("STUE_TAKLYS_DEVICE_ID", "D0603BEE9883_0"),
				DeviceName: "Taklyset i stuen",
				Room:       "stue",
				Default:    true,
				Phrases: []string{
					"slå på taklys", "skru på taklys",
					"slå av taklys", "skru av taklys",
					"dimme taklys", "dimme taklyset",
					"taklys i stuen", "stuelys",
				},
			}, hub, processor, logger),
			NewLightSkill(LightConfig{
				Name:       "taklys_kjokken",
				DeviceID:   envOr("KJOKKEN_TAKLYS_DEVICE_ID", "a742676e-df11-49f1-ad84-184cd2c0850c"),
				DeviceName: "Taklyset på kjøkkenet",
				Room:       "kjokken",
				Phrases: []string{
					"taklys kjøkken", "kjøkken tak",
					"taklys på kjøkkenet", "kjøkkentaklys",
					"tak kjøkken", "taket på kjøkkenet",
					"lys i taket kjøkken", "dimme kjøkken",
					"kjøkken",
				},
			}, hub, processor, logger),
			NewFlowSkill(catalog, hub, processor, logger),
		}
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
