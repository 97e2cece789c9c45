package savegame

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/milk9111/citygame/session"
)

var (
	ErrInvalidLevel  = errors.New("savegame: invalid level")
	ErrInvalidRecord = errors.New("savegame: invalid record")
)

// Record is the flat persisted session layout.
type Record struct {
	Level      int     `json:"level"`
	Credits    int     `json:"credits"`
	PlayerX    float64 `json:"player_x"`
	PlayerY    float64 `json:"player_y"`
	Lives      int     `json:"lives"`
	TimeLeft   int     `json:"time_left"`
	PlayerName string  `json:"player_name"`
}

// Validate rejects unknown level ordinals, negative counters and
// non-finite positions.
func (r Record) Validate() error {
	if _, ok := session.StageForLevel(r.Level); !ok {
		return fmt.Errorf("%w %d", ErrInvalidLevel, r.Level)
	}
	if r.Credits < 0 || r.Lives < 0 || r.TimeLeft < 0 {
		return fmt.Errorf("%w: negative counter", ErrInvalidRecord)
	}
	if math.IsNaN(r.PlayerX) || math.IsNaN(r.PlayerY) || math.IsInf(r.PlayerX, 0) || math.IsInf(r.PlayerY, 0) {
		return fmt.Errorf("%w: player position", ErrInvalidRecord)
	}
	return nil
}

func Encode(r Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(r)
}

// Decode parses and validates a stored record.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}
