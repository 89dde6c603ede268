package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gokatarajesh/kickoff-quiz/internal/question"
)

type bandFile struct {
	Bands []question.BandRule `koanf:"bands"`
}

// LoadBands reads a difficulty band table from a YAML file. An empty path
// yields the built-in table.
//
//	bands:
//	  - min_rating: 0
//	    band: {min: 1, max: 1}
//	  - min_rating: 450
//	    band: {min: 1, max: 2}
func LoadBands(path string) (question.BandTable, error) {
	if path == "" {
		return question.DefaultBandTable(), nil
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return question.BandTable{}, fmt.Errorf("load bands %s: %w", path, err)
	}
	var out bandFile
	if err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return question.BandTable{}, fmt.Errorf("decode bands %s: %w", path, err)
	}
	table, err := question.NewBandTable(out.Bands)
	if err != nil {
		return question.BandTable{}, fmt.Errorf("bands %s: %w", path, err)
	}
	return table, nil
}
