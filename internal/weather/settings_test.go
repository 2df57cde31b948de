package weather

import "testing"

func TestSettingsNormalize(t *testing.T) {
	s := Settings{TempUnit: "celsius", WindUnit: "knots", TimeFormat: "13"}
	s.Normalize()
	if s != (Settings{TempUnit: TempMetric, WindUnit: WindKmh, TimeFormat: Time12}) {
		t.Errorf("normalized = %+v", s)
	}

	keep := Settings{TempUnit: TempKelvin, WindUnit: WindMs, TimeFormat: Time24, AutoRefresh: true}
	got := keep
	got.Normalize()
	if got != keep {
		t.Errorf("valid settings must survive normalize: %+v", got)
	}
}

func TestTempSymbol(t *testing.T) {
	cases := map[TempUnit]string{TempMetric: "C", TempImperial: "F", TempKelvin: "K"}
	for unit, want := range cases {
		if got := (Settings{TempUnit: unit}).TempSymbol(); got != want {
			t.Errorf("TempSymbol(%s) = %q, want %q", unit, got, want)
		}
	}
}
