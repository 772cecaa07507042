// Package emotion defines the closed set of emotion labels used across
// go-concierge and maps each label to its LED color.
//
// Labels travel as plain strings between the LLM proxy, the platform and
// the LED service, so every lookup in this package falls back to Neutral
// rather than failing on unknown input.
package emotion

import (
	"fmt"
	"strings"
)

// Label identifies a single emotion.
type Label string

// The closed set of emotion labels. The first eight are the labels the
// LLM is prompted to emit; the remainder only appear on the LED side.
const (
	Happy     Label = "happy"
	Excited   Label = "excited"
	Surprised Label = "surprised"
	Thinking  Label = "thinking"
	Helpful   Label = "helpful"
	Neutral   Label = "neutral"
	Sad       Label = "sad"
	Welcoming Label = "welcoming"
	Loving    Label = "loving"
	Curious   Label = "curious"
	Angry     Label = "angry"
	Sleepy    Label = "sleepy"
)

// Color is a 24-bit RGB value (0xRRGGBB).
type Color uint32

// Hex returns the color as a #RRGGBB string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c))
}

// RGB returns the individual color channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// colors maps each label to its fixed LED color.
var colors = map[Label]Color{
	Happy:     0xFFFF00, // yellow
	Excited:   0xFF00FF, // magenta
	Surprised: 0xFF8800, // orange
	Thinking:  0x00FFFF, // cyan
	Helpful:   0x00FF00, // green
	Neutral:   0x8888FF, // light blue
	Sad:       0x0000FF, // blue
	Welcoming: 0xFF69B4, // pink
	Loving:    0xFF1493, // deep pink
	Curious:   0x9932CC, // purple
	Angry:     0xFF0000, // red
	Sleepy:    0x4B0082, // indigo
}

// Labels returns all labels in a stable order.
func Labels() []Label {
	return []Label{
		Happy, Excited, Surprised, Thinking, Helpful, Neutral,
		Sad, Welcoming, Loving, Curious, Angry, Sleepy,
	}
}

// IsValid reports whether s names a label in the closed set.
func IsValid(s string) bool {
	_, ok := colors[Label(strings.ToLower(strings.TrimSpace(s)))]
	return ok
}

// Normalize folds arbitrary input to a member of the closed set.
// Anything unrecognized becomes Neutral.
func Normalize(s string) Label {
	l := Label(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := colors[l]; ok {
		return l
	}
	return Neutral
}

// ColorOf returns the LED color for a label. Unknown labels map to the
// neutral color.
func ColorOf(l Label) Color {
	if c, ok := colors[l]; ok {
		return c
	}
	return colors[Neutral]
}

// ParseTag extracts a leading bracketed emotion marker, e.g.
// "[excited] WOW!" yields (Excited, "WOW!", true). When the text has no
// marker, or the marker names an unknown emotion, ok is false and the
// remainder is the input with any leading bracket stripped.
func ParseTag(text string) (label Label, remainder string, ok bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "[") {
		return Neutral, trimmed, false
	}

	end := strings.IndexByte(trimmed, ']')
	if end < 0 {
		return Neutral, trimmed, false
	}

	name := trimmed[1:end]
	remainder = strings.TrimSpace(trimmed[end+1:])
	if !IsValid(name) {
		return Neutral, remainder, false
	}
	return Normalize(name), remainder, true
}

// Detect determines the emotion of a reply. A valid bracketed marker
// wins; otherwise the text is run through the keyword lexicon.
func Detect(text string) (Label, string) {
	if label, remainder, ok := ParseTag(text); ok {
		return label, remainder
	}
	_, remainder, _ := ParseTag(text)
	return Infer(remainder), remainder
}
