package playback

import (
	"fmt"
	"strconv"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

const allNotesOffCC = 123

// OutPorts lists the names of the available MIDI output ports.
func OutPorts() []string {
	var names []string
	for _, out := range midi.GetOutPorts() {
		names = append(names, out.String())
	}
	return names
}

// MIDIOut sends to a MIDI output port.
type MIDIOut struct {
	port drivers.Out
	send func(msg midi.Message) error
}

// OpenMIDIOut opens the output port with the given name, or index if name is
// a number.
func OpenMIDIOut(name string) (*MIDIOut, error) {
	var out drivers.Out
	var err error
	if n, convErr := strconv.Atoi(name); convErr == nil {
		out, err = midi.OutPort(n)
	} else {
		out, err = midi.FindOutPort(name)
	}
	if err != nil {
		return nil, fmt.Errorf("can't find MIDI output %q: %w", name, err)
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", out.String(), err)
	}
	return &MIDIOut{port: out, send: send}, nil
}

func (m *MIDIOut) String() string { return m.port.String() }

func (m *MIDIOut) NoteOn(channel, key, velocity uint8) {
	_ = m.send(midi.NoteOn(channel, key, velocity))
}

func (m *MIDIOut) NoteOff(channel, key uint8) {
	_ = m.send(midi.NoteOff(channel, key))
}

func (m *MIDIOut) Program(channel, program uint8) {
	_ = m.send(midi.ProgramChange(channel, program))
}

func (m *MIDIOut) AllNotesOff() {
	for ch := uint8(0); ch < 16; ch++ {
		_ = m.send(midi.ControlChange(ch, allNotesOffCC, 0))
	}
}

// Close silences the port and closes it.
func (m *MIDIOut) Close() error {
	m.AllNotesOff()
	return m.port.Close()
}
