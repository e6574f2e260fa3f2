package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// shakeFrameInterval is the time between shake frames
const shakeFrameInterval = 50 * time.Millisecond

// shakeOffsets are the horizontal offsets the display cycles through
var shakeOffsets = []int{2, 0, 1, 0}

// shakeFrameMsg advances the shake animation started as seq
type shakeFrameMsg struct {
	seq   int
	frame int
}

// shakeEndMsg stops the shake animation started as seq. A newer shake
// changes the sequence, so a stale end message leaves it running.
type shakeEndMsg struct {
	seq int
}

func shakeFrame(seq, frame int) tea.Cmd {
	return tea.Tick(shakeFrameInterval, func(time.Time) tea.Msg {
		return shakeFrameMsg{seq: seq, frame: frame}
	})
}

func shakeEnd(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return shakeEndMsg{seq: seq}
	})
}
