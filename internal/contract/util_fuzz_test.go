package contract

import "testing"

// FuzzParseDuration fuzzes the duration parser with random text.
func FuzzParseDuration(f *testing.F) {
	seeds := []string{"90 days", "2s", "1 year", "", "0 days", "-5m", "99999999999 years"}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, s string) {
		d, err := ParseDuration(s)
		if err == nil && d <= 0 {
			t.Fatalf("ParseDuration(%q) = %v without error", s, d)
		}
	})
}
