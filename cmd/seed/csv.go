package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JaimeStill/floraguard/internal/plants"
	"github.com/JaimeStill/floraguard/internal/toxicity"
)

var localizedFields = []string{
	plants.FieldScientificName,
	plants.FieldCommonName,
	plants.FieldSymptoms,
	plants.FieldPoisoningAction,
}

// readPlants parses curated records from CSV. The header must name
// scientific_name; common_name, symptoms, poisoning_action, image_folder and
// aliases (semicolon separated) are optional. Columns named
// <field>_<locale> become locale overrides.
func readPlants(r io.Reader) ([]plants.UpsertCommand, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := cols[plants.FieldScientificName]; !ok {
		return nil, errors.New("missing scientific_name column")
	}

	toxic := true
	var cmds []plants.UpsertCommand

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		get := func(name string) string {
			if i, ok := cols[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}

		scientific := get(plants.FieldScientificName)
		id := toxicity.Normalize(scientific)
		if id == "" {
			return nil, fmt.Errorf("line %d: empty scientific_name", line)
		}

		cmd := plants.UpsertCommand{
			ID:              id,
			ScientificName:  scientific,
			CommonName:      get(plants.FieldCommonName),
			Symptoms:        get(plants.FieldSymptoms),
			PoisoningAction: get(plants.FieldPoisoningAction),
			IsToxic:         &toxic,
			Source:          toxicity.SourceCurated,
			Translations:    translations(cols, get),
		}

		if folder := get("image_folder"); folder != "" {
			cmd.ImageFolder = &folder
		}
		for a := range strings.SplitSeq(get("aliases"), ";") {
			if a = strings.TrimSpace(a); a != "" {
				cmd.Aliases = append(cmd.Aliases, a)
			}
		}

		cmds = append(cmds, cmd)
	}

	return cmds, nil
}

func translations(cols map[string]int, get func(string) string) map[string]string {
	out := map[string]string{}
	for name := range cols {
		for _, field := range localizedFields {
			locale, ok := strings.CutPrefix(name, field+"_")
			if !ok || locale == "" {
				continue
			}
			if v := get(name); v != "" {
				out[field+"_"+locale] = v
			}
		}
	}
	return out
}
