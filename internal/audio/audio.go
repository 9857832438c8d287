package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/san-kum/emsim/internal/field"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Processor plays a Synth through the default output device. It implements
// sim.Observer so it can follow a running simulation.
type Processor struct {
	Stream *portaudio.Stream
	Synth  *Synth
	Active bool
}

func NewProcessor() *Processor {
	return &Processor{Synth: NewSynth(SampleRate)}
}

func (a *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, a.ProcessAudio)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio: start stream: %w", err)
	}
	a.Stream = stream
	a.Active = true
	return nil
}

func (a *Processor) Stop() {
	if !a.Active {
		return
	}
	if a.Stream != nil {
		a.Stream.Stop()
		a.Stream.Close()
	}
	portaudio.Terminate()
	a.Active = false
}

// OnFrame feeds the field energies of a finished frame to the synth.
func (a *Processor) OnFrame(frame int, t float64, em *field.EMField) {
	a.Synth.SetEnergy(em.Energy())
}

func (a *Processor) ProcessAudio(out [][]float32) {
	a.Synth.Render(out[0], out[1])
}
