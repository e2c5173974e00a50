// Command synthdemo wires the engine, worker, and hostaudio packages
// into a minimal playable patch: a synth track (pitch source into a
// sawtooth, gated by an envelope, scaled by a gain stage) feeding the
// master bus, driven from a looped clip, plus an optional second track
// sampling notes off a SoundFont when -soundfont is given. It exists
// to exercise the control/audio split end to end, the way the
// teacher's AudioSystem wires MIDIPlayer/WAVPlayer into a shared
// audio.Context.
package main

import (
	"flag"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/zurustar/modsynth/internal/dspgraph"
	"github.com/zurustar/modsynth/internal/engine"
	"github.com/zurustar/modsynth/internal/hostaudio"
	"github.com/zurustar/modsynth/internal/modules"
	"github.com/zurustar/modsynth/internal/timeline"
	"github.com/zurustar/modsynth/internal/worker"
	"github.com/zurustar/modsynth/pkg/fileutil"
	"github.com/zurustar/modsynth/pkg/logger"
)

const (
	sampleRate = 48000
	maxNodes   = 16
)

func main() {
	logLevel := flag.String("log-level", "info", "debug, info, warn, or error")
	duration := flag.Duration("duration", 5*time.Second, "how long to play before exiting")
	bpm := flag.Float64("bpm", 120, "playback tempo in beats per minute")
	soundfont := flag.String("soundfont", "", "path to a .sf2 SoundFont; when set, adds a sampled second track")
	flag.Parse()

	if err := logger.InitLogger(*logLevel); err != nil {
		panic(err)
	}
	log := logger.GetLogger()

	w, toWorkerTx, _, ts, err := worker.Create(maxNodes)
	if err != nil {
		log.Error("failed to create worker", "error", err)
		return
	}

	e := engine.New(sampleRate, toWorkerTx, ts, engine.Config{})
	e.Tempo.BPM = *bpm
	e.Init()

	track := e.AddTrack()
	pitch := e.CreateNode(modules.NewPitch(), nil, nil)
	saw := e.CreateNode(modules.NewSaw(sampleRate), nil, []dspgraph.Wire{{Src: pitch, SrcOut: 0}})
	env := e.CreateNode(modules.NewAdsr(sampleRate, 0.01, 0.1, 0.7, 0.2), nil, nil)
	gain := e.CreateNode(modules.NewGain(),
		[]dspgraph.Wire{{Src: saw, SrcOut: 0}},
		[]dspgraph.Wire{{Src: env, SrcOut: 0}})
	e.SetTrackNode(track, []dspgraph.Wire{{Src: gain, SrcOut: 0}}, []dspgraph.NodeID{pitch, env})

	clip := e.AddClipToTrack(track, 0)
	beat := e.Tempo.Beats(1)
	for i, midi := range []float32{60, 64, 67, 72} {
		e.AddNote(track, clip, timeline.ClipNote{
			ID:       uint32(i),
			Midi:     midi,
			DurTicks: beat,
			Velocity: 100,
		}, int64(i)*beat)
	}
	if *soundfont != "" {
		addSamplerTrack(e, log, *soundfont, beat)
	}

	e.SetLoop(0, 4*beat)
	e.SetPlay()

	w.Work(0) // apply the initial graph before audio starts pulling from it

	audioCtx := audio.NewContext(sampleRate)
	player, err := audioCtx.NewPlayer(hostaudio.NewStream(w, sampleRate))
	if err != nil {
		log.Error("failed to create audio player", "error", err)
		return
	}
	player.Play()
	log.Info("playing demo patch", "duration", duration.String(), "bpm", *bpm)

	deadline := time.Now().Add(*duration)
	for time.Now().Before(deadline) {
		e.RunStep()
		time.Sleep(time.Millisecond)
	}

	player.Close()
}

// addSamplerTrack loads a SoundFont from path and gives it its own track,
// fed a simple arpeggio so Sampler.HandleNote fires through the engine's
// normal note-scheduling machinery rather than being called directly.
func addSamplerTrack(e *engine.Engine, log *slog.Logger, path string, beat int64) {
	fs := fileutil.NewRealFS(filepath.Dir(path))
	sf, err := modules.LoadSoundFont(fs, filepath.Base(path))
	if err != nil {
		log.Error("failed to load soundfont, continuing without sampler track", "path", path, "error", err)
		return
	}
	sampler, err := modules.NewSampler(sf, sampleRate)
	if err != nil {
		log.Error("failed to create sampler, continuing without sampler track", "path", path, "error", err)
		return
	}

	track := e.AddTrack()
	node := e.CreateNode(sampler, nil, nil)
	e.SetTrackNode(track, []dspgraph.Wire{{Src: node, SrcOut: 0}}, []dspgraph.NodeID{node})

	clip := e.AddClipToTrack(track, 0)
	for i, midi := range []float32{48, 52, 55} {
		e.AddNote(track, clip, timeline.ClipNote{
			ID:       uint32(100 + i),
			Midi:     midi,
			DurTicks: beat,
			Velocity: 90,
		}, int64(i)*beat)
	}
}
