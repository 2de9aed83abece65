package etl

import "testing"

func TestParsePeriodCode_Monthly(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"M01": 1,
		"M02": 2,
		"M09": 9,
		"M10": 10,
		"M12": 12,
	}
	for code, want := range cases {
		got, err := ParsePeriodCode(code)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", code, err)
		}
		if got != want {
			t.Fatalf("%s: want=%d got=%d", code, want, got)
		}
	}
}

func TestParsePeriodCode_Semiannual(t *testing.T) {
	t.Parallel()

	got, err := ParsePeriodCode("S01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 6 {
		t.Fatalf("S01 want=6 got=%d", got)
	}

	got, err = ParsePeriodCode("S02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12 {
		t.Fatalf("S02 want=12 got=%d", got)
	}
}

func TestParsePeriodCode_Invalid(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "M", "M13", "M00", "S03", "A01", "Mxx", "2023", "m01"} {
		if _, err := ParsePeriodCode(code); err == nil {
			t.Fatalf("%q: expected error", code)
		}
	}
}
