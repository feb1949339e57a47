package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/steps"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Path joins name onto the store's directory.
func (s *Store) Path(name string) string {
	return filepath.Join(s.baseDir, name)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	SessionID string             `json:"session_id"`
	Algorithm string             `json:"algorithm"`
	Timestamp time.Time          `json:"timestamp"`
	Input     []float64          `json:"input"`
	Sorted    []float64          `json:"sorted"`
	Steps     int                `json:"steps"`
	Counts    map[steps.Role]int `json:"counts"`
	SpeedMs   int64              `json:"speed_ms"`
	Duration  time.Duration      `json:"duration"`
}

// Save writes metadata.json and steps.csv for a finished run.
func (s *Store) Save(res session.Result, speed time.Duration, records []steps.Record) (string, error) {
	runID := fmt.Sprintf("%s_%s", res.Algorithm, shortID(res.SessionID))
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		SessionID: res.SessionID,
		Algorithm: res.Algorithm,
		Timestamp: time.Now(),
		Input:     res.Input,
		Sorted:    res.Sorted,
		Steps:     res.Steps,
		Counts:    res.Counts,
		SpeedMs:   speed.Milliseconds(),
		Duration:  res.Duration,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "steps.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := []string{"seq", "description", "roles"}
	for i := range res.Input {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, rec := range records {
		row := []string{strconv.Itoa(rec.Seq), rec.Description, encodeRoles(rec.Roles)}
		for _, v := range rec.Snapshot {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return runID, w.Error()
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return strconv.FormatInt(time.Now().Unix(), 10)
	}
	return id
}

// encodeRoles renders roles as "compared=0|1;swapped=1".
func encodeRoles(roles steps.Roles) string {
	parts := make([]string, 0, len(roles))
	for _, name := range roles.Names() {
		idx := roles[steps.Role(name)]
		nums := make([]string, len(idx))
		for i, n := range idx {
			nums[i] = strconv.Itoa(n)
		}
		parts = append(parts, name+"="+strings.Join(nums, "|"))
	}
	return strings.Join(parts, ";")
}

func decodeRoles(s string) (steps.Roles, error) {
	roles := steps.Roles{}
	if s == "" {
		return roles, nil
	}
	for _, part := range strings.Split(s, ";") {
		name, list, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("malformed roles %q", s)
		}
		idx := []int{}
		if list != "" {
			for _, n := range strings.Split(list, "|") {
				i, err := strconv.Atoi(n)
				if err != nil {
					return nil, fmt.Errorf("malformed roles %q: %w", s, err)
				}
				idx = append(idx, i)
			}
		}
		roles[steps.Role(name)] = idx
	}
	return roles, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSteps(runID string) ([]steps.Record, error) {
	csvPath := filepath.Join(s.baseDir, runID, "steps.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return []steps.Record{}, nil
	}

	records := make([]steps.Record, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 3 {
			continue
		}

		seq, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", csvPath, i+1, err)
		}
		roles, err := decodeRoles(row[2])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", csvPath, i+1, err)
		}

		snap := make(steps.Snapshot, 0, len(row)-3)
		for _, field := range row[3:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", csvPath, i+1, err)
			}
			snap = append(snap, v)
		}

		records = append(records, steps.Record{
			Seq:         seq,
			Snapshot:    snap,
			Roles:       roles,
			Description: row[1],
		})
	}

	return records, nil
}
