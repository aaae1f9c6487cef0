// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// TOKENIZE TESTS
// =============================================================================

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single word", "hello", []string{"hello"}},
		{"two words", "Hi there!", []string{"Hi", "there!"}},
		{"newline stays in word", "line one\nline two", []string{"line", "one\nline", "two"}},
		{"double space", "a  b", []string{"a", "", "b"}},
		{"leading space", " a", []string{"", "a"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.in)
			if len(got) != len(tc.want) {
				t.Fatalf("Tokenize(%q) = %q, want %q", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("token %d = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

// =============================================================================
// PLAYBACK TESTS
// =============================================================================

func playAll(t *testing.T, final string) []Frame {
	t.Helper()
	pb := NewPlayback("msg_1", final)
	var frames []Frame
	for i := 0; i < 10000; i++ {
		f := pb.Next()
		frames = append(frames, f)
		if f.Done {
			return frames
		}
	}
	t.Fatalf("playback of %q never finished", final)
	return nil
}

func TestPlayback_Frames(t *testing.T) {
	frames := playAll(t, "Hi there friend")

	want := []Frame{
		{MessageID: "msg_1", Content: "Hi", Streaming: true},
		{MessageID: "msg_1", Content: "Hi there", Streaming: true},
		{MessageID: "msg_1", Content: "Hi there friend", Streaming: false, Done: true},
	}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(frames), len(want))
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame %d = %+v, want %+v", i, frames[i], want[i])
		}
	}
}

func TestPlayback_EmptySettlesImmediately(t *testing.T) {
	frames := playAll(t, "")
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	f := frames[0]
	if f.Content != "" || f.Streaming || !f.Done {
		t.Errorf("empty playback frame = %+v", f)
	}
}

func TestPlayback_NextAfterDoneRepeatsFinal(t *testing.T) {
	pb := NewPlayback("msg_1", "one two")
	pb.Next()
	last := pb.Next()
	again := pb.Next()
	if again != last {
		t.Errorf("Next after done = %+v, want %+v", again, last)
	}
	if !pb.Done() || pb.Revealed() != 2 || pb.Len() != 2 {
		t.Errorf("Done=%v Revealed=%d Len=%d", pb.Done(), pb.Revealed(), pb.Len())
	}
}

// Every intermediate frame is a space-joined prefix of the token sequence
// and the final frame equals the input exactly.
func TestPlayback_PrefixAndRoundTrip(t *testing.T) {
	inputs := []string{
		"x",
		"Hi there!",
		"  leading and trailing  ",
		"# Title\n\n- item one\n- item two\n\n```go\nfmt.Println(\"hi\")\n```",
		"tabs\tinside words",
		"unicode 日本語 テキスト ✓",
		strings.Repeat("word ", 200),
		" ",
	}

	for _, in := range inputs {
		tokens := Tokenize(in)
		frames := playAll(t, in)

		for i, f := range frames {
			last := i == len(frames)-1
			if f.Streaming == last {
				t.Errorf("%q frame %d: Streaming=%v, last=%v", in, i, f.Streaming, last)
			}
			want := strings.Join(tokens[:i+1], " ")
			if f.Content != want {
				t.Errorf("%q frame %d: Content=%q, want prefix %q", in, i, f.Content, want)
			}
			if !strings.HasPrefix(in, f.Content) {
				t.Errorf("%q frame %d: %q is not a prefix of the final text", in, i, f.Content)
			}
		}

		if got := frames[len(frames)-1].Content; got != in {
			t.Errorf("round trip: got %q, want %q", got, in)
		}
	}
}

// =============================================================================
// DELAY TESTS
// =============================================================================

func TestRandomDelay_InRange(t *testing.T) {
	d := RandomDelay(DefaultMinDelay, DefaultMaxDelay)
	for i := 0; i < 1000; i++ {
		got := d()
		if got < DefaultMinDelay || got > DefaultMaxDelay {
			t.Fatalf("delay %v outside [%v, %v]", got, DefaultMinDelay, DefaultMaxDelay)
		}
	}
}

func TestRandomDelay_SwappedAndEqualBounds(t *testing.T) {
	d := RandomDelay(70*time.Millisecond, 30*time.Millisecond)
	for i := 0; i < 100; i++ {
		if got := d(); got < 30*time.Millisecond || got > 70*time.Millisecond {
			t.Fatalf("swapped bounds produced %v", got)
		}
	}
	if got := RandomDelay(5*time.Millisecond, 5*time.Millisecond)(); got != 5*time.Millisecond {
		t.Errorf("equal bounds = %v, want 5ms", got)
	}
}

func TestFixedDelay(t *testing.T) {
	if got := FixedDelay(0)(); got != 0 {
		t.Errorf("FixedDelay(0)() = %v", got)
	}
}

func TestSequenceDelay(t *testing.T) {
	d := SequenceDelay(1*time.Millisecond, 2*time.Millisecond)
	got := []time.Duration{d(), d(), d()}
	want := []time.Duration{1 * time.Millisecond, 2 * time.Millisecond, 2 * time.Millisecond}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %v, want %v", i, got[i], want[i])
		}
	}
	if SequenceDelay()() != 0 {
		t.Error("empty sequence should return zero")
	}
}
