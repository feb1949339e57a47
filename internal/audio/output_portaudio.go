//go:build portaudio

package audio

import "github.com/gordonklaus/portaudio"

type output struct {
	stream *portaudio.Stream
}

func openOutput(synth *Synth) (*output, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, synth.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}
	return &output{stream: stream}, nil
}

func (o *output) close() {
	o.stream.Stop()
	o.stream.Close()
	portaudio.Terminate()
}
