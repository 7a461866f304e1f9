package classifier

import (
	"encoding/json"
	"fmt"
	"os"
)

// Unknown labels a prediction whose index has no class name.
const Unknown = "Unknown"

var defaultClasses = []string{
	"Abrus precatorius", "Acalypha indica", "Anacardium occidentale", "Annona_muricata",
	"Annona_squamosa", "Aristolochia tagala", "Asthma-plant (Euphorbia hirta)",
	"Ayushvision_flowers", "Blind-your-eye Mangrove (Excoecaria agallocha)", "Cerbera_odollam",
	"Clerodendrum inerme", "Croton tiglium", "Devil backbone(euphorbia tithymaloides)",
	"Dioscorea hispida Dennst", "Euphorbia Milli", "Heart of Jesus (caladium bicolor)",
	"Kigelia_africana", "Oleander", "Pencil tree (euphorbia tirucalli)", "Phytolacca_octandra",
	"Poisonous American Mushrooms", "Senna Alata", "Solanum nigrum", "Sterculia_foetida",
	"Strychnos_nux-vomica", "adenium obesum", "aloe vera", "heliconia rostrata",
	"poisen ivy", "wild gooseberry",
}

// DefaultClasses returns the label set the bundled model was trained on.
func DefaultClasses() []string {
	out := make([]string, len(defaultClasses))
	copy(out, defaultClasses)
	return out
}

// LoadClasses reads a JSON array of class names. An empty path yields the
// default label set.
func LoadClasses(path string) ([]string, error) {
	if path == "" {
		return DefaultClasses(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classes: %w", err)
	}

	var classes []string
	if err := json.Unmarshal(data, &classes); err != nil {
		return nil, fmt.Errorf("parse classes: %w", err)
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("classes file %s is empty", path)
	}

	return classes, nil
}

func label(classes []string, idx int) string {
	if idx < 0 || idx >= len(classes) {
		return Unknown
	}
	return classes[idx]
}
