package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/sortviz/internal/steps"
)

type ExportData struct {
	Run   RunMetadata    `json:"run"`
	Steps []steps.Record `json:"steps"`
}

func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	records, err := s.LoadSteps(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Run: *meta, Steps: records}, nil
}

func (s *Store) ExportJSON(w io.Writer, runID string) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}
