package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// NoDominantPhase se muestra cuando la distribucion esta vacia.
const NoDominantPhase = "N/A"

// PhaseCount es una entrada de la distribucion de fases.
type PhaseCount struct {
	Phase string
	Count int64
}

// PhaseDistribution conserva el orden de las claves tal como llegan en el JSON.
// El primer elemento es la fase dominante.
type PhaseDistribution []PhaseCount

// GlobalSummary agrega estadisticas de la poblacion del estudio.
type GlobalSummary struct {
	TotalRecords      int64              `json:"total_records"`
	AvgHeartRate      float64            `json:"avg_heart_rate"`
	TotalSteps        float64            `json:"total_steps"`
	AvgSteps          float64            `json:"avg_steps,omitempty"`
	PhaseDistribution PhaseDistribution  `json:"phase_distribution"`
	SymptomAverages   map[string]float64 `json:"symptom_averages,omitempty"`
}

// DominantPhase devuelve la clave de la primera entrada o "N/A".
func (s GlobalSummary) DominantPhase() string {
	if len(s.PhaseDistribution) == 0 {
		return NoDominantPhase
	}
	return s.PhaseDistribution[0].Phase
}

// SortByFrequency ordena de mayor a menor conteo; los empates mantienen el orden recibido.
func (d PhaseDistribution) SortByFrequency() {
	sort.SliceStable(d, func(i, j int) bool {
		return d[i].Count > d[j].Count
	})
}

func (d PhaseDistribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Phase)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", entry.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *PhaseDistribution) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("phase_distribution: expected object")
	}
	out := PhaseDistribution{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("phase_distribution: expected string key")
		}
		var count float64
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("phase_distribution[%s]: %w", key, err)
		}
		out = append(out, PhaseCount{Phase: key, Count: int64(count)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}
