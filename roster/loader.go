// Package roster reads participant and meeting tables from YAML or JSON files.
package roster

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/meetplan/core/model"
)

// ParticipantDef is the on-disk form of a participant. Clock values are
// "HH:MM" strings.
type ParticipantDef struct {
	Name           string  `yaml:"name" json:"name"`
	UTCOffsetHours float64 `yaml:"utc_offset_hours" json:"utc_offset_hours"`
	LocalStart     string  `yaml:"local_start" json:"local_start"`
	LocalEnd       string  `yaml:"local_end" json:"local_end"`
}

func (p ParticipantDef) ToModel() (model.Participant, error) {
	start, err := model.ParseClock(p.LocalStart)
	if err != nil {
		return model.Participant{}, fmt.Errorf("participant %s: local_start: %w", p.Name, err)
	}
	end, err := model.ParseClock(p.LocalEnd)
	if err != nil {
		return model.Participant{}, fmt.Errorf("participant %s: local_end: %w", p.Name, err)
	}
	return model.Participant{
		Name:           p.Name,
		UTCOffsetHours: p.UTCOffsetHours,
		LocalStart:     start,
		LocalEnd:       end,
	}, nil
}

type MeetingDef struct {
	ID              string   `yaml:"id" json:"id"`
	Team            string   `yaml:"team,omitempty" json:"team,omitempty"`
	DurationMinutes int      `yaml:"duration_minutes" json:"duration_minutes"`
	Participants    []string `yaml:"participants" json:"participants"`
}

func (m MeetingDef) ToModel() model.Meeting {
	return model.Meeting{
		ID:              m.ID,
		Team:            m.Team,
		DurationMinutes: m.DurationMinutes,
		Participants:    append([]string(nil), m.Participants...),
	}
}

// File is a roster document.
type File struct {
	Participants []ParticipantDef `yaml:"participants" json:"participants"`
	Meetings     []MeetingDef     `yaml:"meetings" json:"meetings"`
}

// ToModel converts the document. Structural validation is left to the
// planner.
func (f File) ToModel() (model.Roster, error) {
	r := model.Roster{
		Participants: make([]model.Participant, 0, len(f.Participants)),
		Meetings:     make([]model.Meeting, 0, len(f.Meetings)),
	}
	for _, p := range f.Participants {
		mp, err := p.ToModel()
		if err != nil {
			return model.Roster{}, err
		}
		r.Participants = append(r.Participants, mp)
	}
	for _, m := range f.Meetings {
		r.Meetings = append(r.Meetings, m.ToModel())
	}
	return r, nil
}

// FromModel builds the on-disk form of r.
func FromModel(r model.Roster) File {
	var f File
	for _, p := range r.Participants {
		f.Participants = append(f.Participants, ParticipantDef{
			Name:           p.Name,
			UTCOffsetHours: p.UTCOffsetHours,
			LocalStart:     p.LocalStart.String(),
			LocalEnd:       p.LocalEnd.String(),
		})
	}
	for _, m := range r.Meetings {
		f.Meetings = append(f.Meetings, MeetingDef{
			ID:              m.ID,
			Team:            m.Team,
			DurationMinutes: m.DurationMinutes,
			Participants:    append([]string(nil), m.Participants...),
		})
	}
	return f
}

// Format selects the document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported roster format: %s", filepath.Ext(path))
	}
}

// Decode reads a roster document from r.
func Decode(r io.Reader, format Format) (File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return File{}, fmt.Errorf("decode yaml roster: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return File{}, fmt.Errorf("decode json roster: %w", err)
		}
	default:
		return File{}, fmt.Errorf("unsupported roster format: %q", format)
	}
	return f, nil
}

// Load reads and converts the roster at path.
func Load(path string) (model.Roster, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return model.Roster{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Roster{}, err
	}
	f, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return model.Roster{}, fmt.Errorf("%s: %w", path, err)
	}
	return f.ToModel()
}

// Encode writes f to w in the given format.
func Encode(w io.Writer, f File, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	default:
		return fmt.Errorf("unsupported roster format: %q", format)
	}
}
