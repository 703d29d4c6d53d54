package week_test

import (
	"encoding/json"
	"testing"

	week "github.com/okian/liga/internal/domain/week"
)

func TestFlexIntUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		set  bool
		val  float64
	}{
		{"number", `120`, true, 120},
		{"numeric string", `"45"`, true, 45},
		{"empty string means unset", `""`, false, 0},
		{"garbage string fails closed", `"soon"`, false, 0},
		{"null fails closed", `null`, false, 0},
		{"object fails closed", `{}`, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f week.FlexInt
			if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if f.Set != tt.set || f.Value != tt.val {
				t.Fatalf("unmarshal %s = %+v, want set=%v value=%v", tt.in, f, tt.set, tt.val)
			}
		})
	}
}

func TestFlexIntMarshal(t *testing.T) {
	b, err := json.Marshal(week.FlexInt{})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `""` {
		t.Fatalf("unset marshals to %s, want \"\"", b)
	}
	b, err = json.Marshal(week.FlexInt{Set: true, Value: 40})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `40` {
		t.Fatalf("set marshals to %s, want 40", b)
	}
}

func TestCaptureWireShape(t *testing.T) {
	raw := `{
		"challenge": "atrapar 40",
		"targetTotal": 40,
		"updatedAt": "2026-02-03T12:00:00Z",
		"weekLabel": "1/2",
		"byTeam": {
			"Naranja": {
				"finishTime": "",
				"playerPoints": {"Gio": 12, "Samy": 3}
			}
		}
	}`
	var c week.Capture
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal capture: %v", err)
	}
	if c.Objective() != 40 {
		t.Fatalf("objective = %d, want 40", c.Objective())
	}
	if c.ByTeam["Naranja"].PlayerPoints["Gio"] != 12 {
		t.Fatalf("player points lost in decode: %+v", c.ByTeam)
	}
	if !c.ChallengeLocked() || !c.TargetLocked() {
		t.Fatal("challenge and target should be locked once set")
	}
}

func TestNormalize(t *testing.T) {
	teams := []week.Team{
		{Name: "Naranja", Players: []string{"Gio", "Samy"}},
		{Name: "Celeste", Players: []string{"Nico", "Abi"}},
	}

	t.Run("empty capture gets zeroed sub-objects", func(t *testing.T) {
		c := week.Normalize(week.Capture{}, teams)
		if len(c.ByTeam) != 2 {
			t.Fatalf("byTeam teams = %d, want 2", len(c.ByTeam))
		}
		if v := c.ByTeam["Celeste"].PlayerPoints["Abi"]; v != 0 {
			t.Fatalf("missing player should default to 0, got %v", v)
		}
	})

	t.Run("existing data survives and the input is not mutated", func(t *testing.T) {
		in := week.Capture{
			Challenge: "reto",
			ByTeam: map[string]week.TeamCapture{
				"Naranja": {FinishTime: "2026-02-05T18:00:00Z", PlayerPoints: map[string]float64{"Gio": 7}},
			},
		}
		out := week.Normalize(in, teams)
		if out.ByTeam["Naranja"].PlayerPoints["Gio"] != 7 {
			t.Fatal("existing points must survive normalization")
		}
		if out.ByTeam["Naranja"].FinishTime != "2026-02-05T18:00:00Z" {
			t.Fatal("finish time must survive normalization")
		}
		out.ByTeam["Naranja"].PlayerPoints["Gio"] = 99
		if in.ByTeam["Naranja"].PlayerPoints["Gio"] != 7 {
			t.Fatal("normalization must not share maps with its input")
		}
	})
}

func TestHasData(t *testing.T) {
	teams := []week.Team{{Name: "Naranja", Players: []string{"Gio"}}}
	if week.NewCapture(teams).HasData() {
		t.Fatal("fresh capture should report no data")
	}
	c := week.NewCapture(teams)
	c.Challenge = "algo"
	if !c.HasData() {
		t.Fatal("a challenge counts as data")
	}
	c = week.NewCapture(teams)
	nt := c.ByTeam["Naranja"]
	nt.PlayerPoints["Gio"] = 3
	c.ByTeam["Naranja"] = nt
	if !c.HasData() {
		t.Fatal("positive points count as data")
	}
}
