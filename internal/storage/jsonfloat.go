package storage

import (
	"encoding/json"
	"fmt"
	"math"
)

// jsonFloat writes NaN and the infinities as the strings "NaN", "+Inf" and
// "-Inf". encoding/json refuses them as numbers, and an unstable run
// produces them in its metrics.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	}
	return json.Marshal(v)
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "NaN":
			*f = jsonFloat(math.NaN())
		case "+Inf", "Inf":
			*f = jsonFloat(math.Inf(1))
		case "-Inf":
			*f = jsonFloat(math.Inf(-1))
		default:
			return fmt.Errorf("storage: %q is not a number", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = jsonFloat(v)
	return nil
}

// runMetadataJSON has RunMetadata's fields without its methods.
type runMetadataJSON RunMetadata

func (m RunMetadata) MarshalJSON() ([]byte, error) {
	var metrics map[string]jsonFloat
	if m.Metrics != nil {
		metrics = make(map[string]jsonFloat, len(m.Metrics))
		for k, v := range m.Metrics {
			metrics[k] = jsonFloat(v)
		}
	}
	return json.Marshal(struct {
		runMetadataJSON
		TimeScale   jsonFloat            `json:"time_scale"`
		FrameDt     jsonFloat            `json:"frame_dt"`
		EnergyDrift jsonFloat            `json:"energy_drift"`
		Metrics     map[string]jsonFloat `json:"metrics"`
	}{
		runMetadataJSON: runMetadataJSON(m),
		TimeScale:       jsonFloat(m.TimeScale),
		FrameDt:         jsonFloat(m.FrameDt),
		EnergyDrift:     jsonFloat(m.EnergyDrift),
		Metrics:         metrics,
	})
}

func (m *RunMetadata) UnmarshalJSON(data []byte) error {
	aux := struct {
		*runMetadataJSON
		TimeScale   jsonFloat            `json:"time_scale"`
		FrameDt     jsonFloat            `json:"frame_dt"`
		EnergyDrift jsonFloat            `json:"energy_drift"`
		Metrics     map[string]jsonFloat `json:"metrics"`
	}{runMetadataJSON: (*runMetadataJSON)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.TimeScale = float64(aux.TimeScale)
	m.FrameDt = float64(aux.FrameDt)
	m.EnergyDrift = float64(aux.EnergyDrift)
	m.Metrics = nil
	if aux.Metrics != nil {
		m.Metrics = make(map[string]float64, len(aux.Metrics))
		for k, v := range aux.Metrics {
			m.Metrics[k] = float64(v)
		}
	}
	return nil
}

func (f Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Time           jsonFloat    `json:"time"`
		ElectricEnergy jsonFloat    `json:"electric_energy"`
		MagneticEnergy jsonFloat    `json:"magnetic_energy"`
		Probe          [3]jsonFloat `json:"probe"`
	}{
		jsonFloat(f.Time),
		jsonFloat(f.ElectricEnergy),
		jsonFloat(f.MagneticEnergy),
		[3]jsonFloat{jsonFloat(f.Probe[0]), jsonFloat(f.Probe[1]), jsonFloat(f.Probe[2])},
	})
}
