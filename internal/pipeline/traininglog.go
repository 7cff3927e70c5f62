package pipeline

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
)

// TrainingRecord is one line of the append-only training log: the resolved
// product plus the features the classifier saw. Only records whose encoded
// categories were all inside the trained sets are written, so the log can
// be fed back into training untouched.
type TrainingRecord struct {
	ID            string    `json:"id"`
	RecordedAt    time.Time `json:"recorded_at"`
	Identifier    string    `json:"identifier,omitempty"`
	Title         string    `json:"title"`
	Material      string    `json:"material"`
	WeightKG      float64   `json:"weight_kg"`
	Transport     string    `json:"transport"`
	Recyclability string    `json:"recyclability"`
	Origin        string    `json:"origin"`
	CarbonKG      float64   `json:"carbon_kg"`
	EcoScore      string    `json:"eco_score"`
	EcoScoreML    string    `json:"eco_score_ml"`
}

// TrainingLog appends JSONL records to a file. Writes are serialized; a nil
// log drops records silently so the pipeline can run without one.
type TrainingLog struct {
	mu   sync.Mutex
	path string
}

// NewTrainingLog opens (creating if needed) an append-only training log.
func NewTrainingLog(path string) (*TrainingLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: open training log %s", path)
	}
	f.Close()
	return &TrainingLog{path: path}, nil
}

// Append writes one record as a JSON line.
func (l *TrainingLog) Append(p model.Product) error {
	if l == nil {
		return nil
	}
	rec := TrainingRecord{
		ID:            uuid.NewString(),
		RecordedAt:    time.Now().UTC(),
		Identifier:    p.Identifier,
		Title:         p.Title,
		Material:      p.Material,
		WeightKG:      p.WeightKG,
		Transport:     p.TransportMode,
		Recyclability: p.Recyclability,
		Origin:        p.OriginCountry,
		CarbonKG:      p.CarbonKG,
		EcoScore:      p.EcoScore,
		EcoScoreML:    p.EcoScoreML,
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "pipeline: marshal training record")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return eris.Wrapf(err, "pipeline: open training log %s", l.path)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return eris.Wrap(err, "pipeline: append training record")
	}
	return nil
}
