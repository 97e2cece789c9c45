package assets

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const sampleRate = 44100

// Audio plays named sound cues and looping level music. Missing or broken
// files are logged once and otherwise ignored.
type Audio struct {
	ctx    *audio.Context
	loader *Loader
	cues   map[string]string
	pcm    map[string][]byte
	failed map[string]bool
	music  *audio.Player
	track  string
	muted  bool
	logger *log.Logger
}

// NewAudio creates the process-wide audio context. cues maps cue names to
// wav files.
func NewAudio(loader *Loader, cues map[string]string) *Audio {
	return &Audio{
		ctx:    audio.NewContext(sampleRate),
		loader: loader,
		cues:   cues,
		pcm:    map[string][]byte{},
		failed: map[string]bool{},
		logger: log.WithPrefix("audio"),
	}
}

func (a *Audio) decode(p string) (*wav.Stream, error) {
	if !strings.EqualFold(pathExt(p), ".wav") {
		return nil, fmt.Errorf("unsupported audio format %q", p)
	}
	b, err := a.loader.LoadFile(p)
	if err != nil {
		return nil, err
	}
	return wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(b))
}

func (a *Audio) fail(p string, err error) {
	if a.failed[p] {
		return
	}
	a.failed[p] = true
	a.logger.Warn("sound unavailable", "file", p, "err", err)
}

// PlayCue plays the sound bound to name. Unbound names are ignored.
func (a *Audio) PlayCue(name string) {
	if a == nil || a.muted {
		return
	}
	p, ok := a.cues[name]
	if !ok || a.failed[p] {
		return
	}
	pcm, ok := a.pcm[p]
	if !ok {
		stream, err := a.decode(p)
		if err != nil {
			a.fail(p, err)
			return
		}
		if pcm, err = io.ReadAll(stream); err != nil {
			a.fail(p, err)
			return
		}
		a.pcm[p] = pcm
	}
	a.ctx.NewPlayerFromBytes(pcm).Play()
}

// PlayMusic loops the track at p, replacing whatever is playing.
func (a *Audio) PlayMusic(p string) {
	if a == nil || p == a.track {
		return
	}
	a.StopMusic()
	a.track = p
	if p == "" || a.failed[p] {
		return
	}
	stream, err := a.decode(p)
	if err != nil {
		a.fail(p, err)
		return
	}
	player, err := a.ctx.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
	if err != nil {
		a.fail(p, err)
		return
	}
	a.music = player
	if !a.muted {
		a.music.Play()
	}
}

func (a *Audio) StopMusic() {
	if a == nil || a.music == nil {
		return
	}
	if err := a.music.Close(); err != nil {
		a.logger.Debug("close music", "err", err)
	}
	a.music = nil
	a.track = ""
}

// SetMuted silences cues and pauses music.
func (a *Audio) SetMuted(muted bool) {
	if a == nil {
		return
	}
	a.muted = muted
	if a.music == nil {
		return
	}
	if muted {
		a.music.Pause()
	} else {
		a.music.Play()
	}
}

func pathExt(p string) string {
	if i := strings.LastIndexByte(p, '.'); i >= 0 {
		return p[i:]
	}
	return ""
}
