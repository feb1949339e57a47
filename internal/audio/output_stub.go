//go:build !portaudio

package audio

type output struct{}

func openOutput(*Synth) (*output, error) { return nil, ErrUnavailable }

func (o *output) close() {}
