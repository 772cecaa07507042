package emotion

import "testing"

func TestColorOfDocumentedTable(t *testing.T) {
	want := map[Label]Color{
		Happy:     0xFFFF00,
		Excited:   0xFF00FF,
		Surprised: 0xFF8800,
		Thinking:  0x00FFFF,
		Helpful:   0x00FF00,
		Neutral:   0x8888FF,
		Sad:       0x0000FF,
		Welcoming: 0xFF69B4,
		Loving:    0xFF1493,
		Curious:   0x9932CC,
		Angry:     0xFF0000,
		Sleepy:    0x4B0082,
	}

	for label, color := range want {
		if got := ColorOf(label); got != color {
			t.Errorf("ColorOf(%s) = %s, want %s", label, got.Hex(), color.Hex())
		}
	}

	if len(want) != len(Labels()) {
		t.Errorf("label set size mismatch: table %d, Labels() %d", len(want), len(Labels()))
	}
}

func TestColorOfUnknownIsNeutral(t *testing.T) {
	for _, bogus := range []Label{"", "confused", "HAPPY!", "rage"} {
		if got := ColorOf(bogus); got != ColorOf(Neutral) {
			t.Errorf("ColorOf(%q) = %s, want neutral %s", bogus, got.Hex(), ColorOf(Neutral).Hex())
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want Label
	}{
		{"happy", Happy},
		{"  Excited  ", Excited},
		{"SAD", Sad},
		{"bogus", Neutral},
		{"", Neutral},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseTag(t *testing.T) {
	label, rest, ok := ParseTag("[excited] WOW! 40% OFF on phones!")
	if !ok || label != Excited {
		t.Fatalf("ParseTag: got (%s, %v), want (excited, true)", label, ok)
	}
	if rest != "WOW! 40% OFF on phones!" {
		t.Errorf("remainder = %q", rest)
	}

	// No marker
	if _, _, ok := ParseTag("plain text"); ok {
		t.Error("expected ok=false for unmarked text")
	}

	// Unknown label: not ok, but the bracket is still stripped
	label, rest, ok = ParseTag("[confused] hmm")
	if ok {
		t.Error("expected ok=false for unknown label")
	}
	if label != Neutral || rest != "hmm" {
		t.Errorf("got (%s, %q), want (neutral, \"hmm\")", label, rest)
	}

	// Unclosed bracket
	if _, _, ok := ParseTag("[excited no close"); ok {
		t.Error("expected ok=false for unclosed bracket")
	}
}

func TestInfer(t *testing.T) {
	cases := []struct {
		text string
		want Label
	}{
		{"WOW! The electronics store has an AMAZING 40% OFF sale right now!", Excited},
		{"Unfortunately, the restaurant is temporarily closed for renovations.", Sad},
		{"There's a secret rooftop garden most people don't know about.", Surprised},
		{"The washroom is on the second floor near the escalators.", Helpful},
		{"Hello! Welcome, I'm so glad you're here!", Welcoming},
		{"Let me check that information for you, one moment.", Thinking},
		{"The opening hours are 9 AM to 9 PM.", Neutral},
		{"", Neutral},
	}
	for _, tc := range cases {
		if got := Infer(tc.text); got != tc.want {
			t.Errorf("Infer(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestDetectPrefersTag(t *testing.T) {
	// Marker contradicts the wording; the marker wins.
	label, rest := Detect("[sad] WOW! AMAZING sale today!")
	if label != Sad {
		t.Errorf("Detect = %s, want sad", label)
	}
	if rest != "WOW! AMAZING sale today!" {
		t.Errorf("remainder = %q", rest)
	}
}

func TestDetectFallsBackToLexicon(t *testing.T) {
	label, _ := Detect("Unfortunately that shop is closed today.")
	if label != Sad {
		t.Errorf("Detect = %s, want sad", label)
	}

	label, _ = Detect("The schedule is posted at the entrance.")
	if label != Neutral {
		t.Errorf("Detect = %s, want neutral", label)
	}
}
