package gameplay

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/citygame/savegame"
	"github.com/milk9111/citygame/session"
)

// Record captures the session and player position.
func (g *Game) Record() savegame.Record {
	st := g.session.Snapshot()
	r := savegame.Record{
		Level:      st.Level,
		Credits:    st.Credits,
		Lives:      st.Lives,
		TimeLeft:   st.TimeLeft,
		PlayerName: st.PlayerName,
	}
	if g.level != nil {
		if pos, ok := g.level.PlayerPosition(); ok {
			r.PlayerX, r.PlayerY = pos.X, pos.Y
		}
	}
	return r
}

// Save writes the current state to the configured slot.
func (g *Game) Save() error {
	if g.store == nil {
		return ErrNoStore
	}
	if err := g.store.Save(g.slot, g.Record()); err != nil {
		g.logger.Error("save failed", "slot", g.slot, "err", err)
		return err
	}
	return nil
}

// Load restores the configured slot. On error the game is unchanged.
func (g *Game) Load() error {
	if g.store == nil {
		return ErrNoStore
	}
	r, err := g.store.Load(g.slot)
	if err != nil {
		g.logger.Error("load failed", "slot", g.slot, "err", err)
		return err
	}
	return g.Apply(r)
}

// Apply rebuilds the game from r: the indicated level is populated fresh,
// then the session is restored and the player placed. Nothing changes
// unless every step succeeds.
func (g *Game) Apply(r savegame.Record) error {
	if err := r.Validate(); err != nil {
		g.logger.Error("rejected save record", "err", err)
		return err
	}
	st := session.State{
		Level:      r.Level,
		Credits:    r.Credits,
		Lives:      r.Lives,
		TimeLeft:   r.TimeLeft,
		PlayerName: r.PlayerName,
	}
	if err := session.ValidateState(st); err != nil {
		g.logger.Error("rejected save record", "err", err)
		return err
	}

	next, err := g.buildLevel(r.Level)
	if err != nil {
		g.logger.Error("rebuild level failed", "level", r.Level, "err", err)
		return err
	}
	if err := g.session.Restore(st); err != nil {
		next.Stop()
		return err
	}
	next.PlacePlayer(cp.Vector{X: r.PlayerX, Y: r.PlayerY})
	g.setLevel(next)
	g.logger.Info("loaded", "level", r.Level, "lives", r.Lives, "time_left", r.TimeLeft)
	return nil
}
