package header

import (
	"sync"
	"testing"

	"github.com/vitrinhq/vitrin/pkg/observability"
)

type recordingHooks struct {
	observability.NoopLayoutHooks
	mu         sync.Mutex
	tiers      []string
	positions  []string
	collisions [][3]string
}

func (r *recordingHooks) OnUnknownSizeTier(tier string, fallback int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers = append(r.tiers, tier)
}

func (r *recordingHooks) OnUnknownPosition(kind, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions = append(r.positions, kind+":"+value)
}

func (r *recordingHooks) OnCollision(logo, title, final string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collisions = append(r.collisions, [3]string{logo, title, final})
}

func withRecorder(t *testing.T) *recordingHooks {
	t.Helper()
	rec := &recordingHooks{}
	observability.SetLayoutHooks(rec)
	t.Cleanup(observability.Reset)
	return rec
}

func TestLogoHeight(t *testing.T) {
	tests := []struct {
		tier SizeTier
		want int
	}{
		{SizeSmall, 24},
		{SizeMedium, 36},
		{SizeLarge, 48},
		{SizeXLarge, 60},
		{"", 36},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			rec := withRecorder(t)
			if got := LogoHeight(tt.tier); got != tt.want {
				t.Errorf("LogoHeight(%q) = %d, want %d", tt.tier, got, tt.want)
			}
			if len(rec.tiers) != 0 {
				t.Errorf("unexpected diagnostics: %v", rec.tiers)
			}
		})
	}
}

func TestLogoHeightMonotonic(t *testing.T) {
	prev := 0
	for _, tier := range Tiers() {
		h := LogoHeight(tier)
		if h <= 0 {
			t.Errorf("LogoHeight(%q) = %d, want > 0", tier, h)
		}
		if h < prev {
			t.Errorf("LogoHeight(%q) = %d, smaller than previous tier %d", tier, h, prev)
		}
		prev = h
	}
}

func TestLogoHeightUnknownTier(t *testing.T) {
	for _, tier := range []SizeTier{"jumbo", "x-large", "huge"} {
		t.Run(string(tier), func(t *testing.T) {
			rec := withRecorder(t)
			if got := LogoHeight(tier); got != FallbackHeight {
				t.Errorf("LogoHeight(%q) = %d, want %d", tier, got, FallbackHeight)
			}
			if len(rec.tiers) != 1 || rec.tiers[0] != string(tier) {
				t.Errorf("diagnostics = %v, want [%q]", rec.tiers, tier)
			}
		})
	}
}

func TestLogoHeightNormalizesInput(t *testing.T) {
	tests := []struct {
		tier SizeTier
		want int
	}{
		{"extra-large", 60},
		{"xl", 60},
		{"XL", 60},
		{"Large", 48},
		{" small ", 24},
		{"sm", 24},
		{"md", 36},
		{"lg", 48},
		{"MEDIUM", 36},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			rec := withRecorder(t)
			parsed, ok := ParseSizeTier(string(tt.tier))
			if !ok {
				t.Fatalf("ParseSizeTier(%q) not ok", tt.tier)
			}
			if got := LogoHeight(tt.tier); got != tt.want {
				t.Errorf("LogoHeight(%q) = %d, want %d", tt.tier, got, tt.want)
			}
			if got := LogoHeight(parsed); got != LogoHeight(tt.tier) {
				t.Errorf("LogoHeight(%q) = %d, but parsed tier %q gives %d", tt.tier, LogoHeight(tt.tier), parsed, got)
			}
			if len(rec.tiers) != 0 {
				t.Errorf("unexpected diagnostics: %v", rec.tiers)
			}
		})
	}
}

func TestFallbackMatchesMedium(t *testing.T) {
	if FallbackHeight != LogoHeight(SizeMedium) {
		t.Errorf("FallbackHeight = %d, medium = %d", FallbackHeight, LogoHeight(SizeMedium))
	}
}

func TestParseSizeTier(t *testing.T) {
	tests := []struct {
		input  string
		want   SizeTier
		wantOK bool
	}{
		{"small", SizeSmall, true},
		{" Large ", SizeLarge, true},
		{"XLARGE", SizeXLarge, true},
		{"extra-large", SizeXLarge, true},
		{"xl", SizeXLarge, true},
		{"md", SizeMedium, true},
		{"", SizeMedium, true},
		{"jumbo", "jumbo", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSizeTier(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseSizeTier(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
