package document

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	p := NewProcessor()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "collapses whitespace",
			in:   "Mars   in\tthe\n\n7th house",
			want: "Mars in the 7th house",
		},
		{
			name: "strips page number lines",
			in:   "end of page one.\n42\nstart of page two.",
			want: "end of page one. start of page two.",
		},
		{
			name: "removes form feeds",
			in:   "page one\fpage two",
			want: "page one page two",
		},
		{
			name: "removes replacement characters",
			in:   "Saturn � in Capricorn",
			want: "Saturn in Capricorn",
		},
		{
			name: "trims",
			in:   "   Jupiter rules Sagittarius   ",
			want: "Jupiter rules Sagittarius",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	p := NewProcessor()

	text := "Mars in the 7th house causes conflicts. Too short! " +
		"Jupiter in the 5th house gives wise children? Final fragment without terminator here"
	got := p.SplitSentences(text)

	want := []string{
		"Mars in the 7th house causes conflicts",
		"Jupiter in the 5th house gives wise children",
		"Final fragment without terminator here",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentencesLengthBounds(t *testing.T) {
	p := NewProcessor()

	long := strings.Repeat("very long clause ", 40) // > 500 chars, no terminator
	text := "tiny. " + long + ". Mars in the 7th house causes conflicts."
	got := p.SplitSentences(text)

	if len(got) != 1 {
		t.Fatalf("got %d sentences %v, want 1", len(got), got)
	}
	if !strings.HasPrefix(got[0], "Mars") {
		t.Errorf("kept sentence = %q", got[0])
	}
}

func TestIsAstrological(t *testing.T) {
	p := NewProcessor()

	tests := []struct {
		name     string
		sentence string
		want     bool
	}{
		{"planet and house", "Mars in the 7th house", true},
		{"planet and bhava", "Mars in the seventh bhava", true},
		{"planet and sign", "Moon in Cancer", true},
		{"planet and effect", "Jupiter gives wisdom", true},
		{"planet alone", "Mars is red", false},
		{"house without planet", "The 7th house rules marriage", false},
		{"effect without planet", "This placement gives wealth", false},
		{"plain prose", "The author was born in 1912", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.IsAstrological(tt.sentence); got != tt.want {
				t.Errorf("IsAstrological(%q) = %v, want %v", tt.sentence, got, tt.want)
			}
		})
	}
}

func TestProcess(t *testing.T) {
	p := NewProcessor()

	text := "Chapter one introduction text here.\n3\n" +
		"Mars in the 7th house causes conflicts in marriage. " +
		"The author lived in Varanasi for decades. " +
		"Jupiter in Sagittarius gives wisdom and learning."
	doc := p.Process("saravali.txt", text, 2)

	if doc.Filename != "saravali.txt" {
		t.Errorf("Filename = %q", doc.Filename)
	}
	if doc.Pages != 2 {
		t.Errorf("Pages = %d, want 2", doc.Pages)
	}
	if len(doc.Sentences) != 4 {
		t.Errorf("Sentences = %d (%v), want 4", len(doc.Sentences), doc.Sentences)
	}
	if len(doc.Astrological) != 2 {
		t.Fatalf("Astrological = %d (%v), want 2", len(doc.Astrological), doc.Astrological)
	}
	// Order preserved.
	if !strings.HasPrefix(doc.Astrological[0], "Mars") || !strings.HasPrefix(doc.Astrological[1], "Jupiter") {
		t.Errorf("filtered order = %v", doc.Astrological)
	}
}
