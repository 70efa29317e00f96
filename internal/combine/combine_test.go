package combine

import (
	"reflect"
	"testing"

	"demodash/internal/match"
)

func part(teamASide match.Side, winners []match.Side) match.Match {
	teamBSide := teamASide.Opposite()
	m := match.Match{
		MapName: "Mirage",
		Date:    "2025-03-01",
		TeamA:   match.Team{Name: "alpha", StartingSide: teamASide},
		TeamB:   match.Team{Name: "bravo", StartingSide: teamBSide},
	}
	for i, w := range winners {
		reason := match.EndCTsEliminated
		if w == match.SideCT {
			reason = match.EndTerroristsEliminated
		}
		m.Rounds = append(m.Rounds, match.Round{Number: i + 1, WinnerSide: w, EndReason: reason})
	}
	m.TeamA.Score, m.TeamB.Score = m.DerivedScores()
	return m
}

func sides(winner match.Side, n int) []match.Side {
	out := make([]match.Side, n)
	for i := range out {
		out[i] = winner
	}
	return out
}

func TestCombineNoParts(t *testing.T) {
	if _, err := Combine(nil); err != ErrNoParts {
		t.Fatalf("err = %v, want ErrNoParts", err)
	}
}

func TestCombineSinglePartPassthrough(t *testing.T) {
	p := part(match.SideCT, sides(match.SideCT, 5))
	p.TeamA.Score, p.TeamB.Score = 13, 7 // stored override must survive

	res, err := Combine([]match.Match{p})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Match, p) {
		t.Fatalf("single part was modified:\n got %+v\nwant %+v", res.Match, p)
	}
	if res.WinnerName != "alpha" {
		t.Fatalf("WinnerName = %q, want alpha", res.WinnerName)
	}
}

func TestCombineRenumbersAcrossParts(t *testing.T) {
	// A 12-round first part and a 15-round second part. Each part's rounds
	// start at 1; the combined match must run 1..27.
	p1 := part(match.SideCT, sides(match.SideCT, 12))
	p2Winners := append(sides(match.SideT, 10), sides(match.SideCT, 5)...)
	p2 := part(match.SideCT, p2Winners)

	res, err := Combine([]match.Match{p1, p2})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Match.Rounds) != 27 {
		t.Fatalf("combined rounds = %d, want 27", len(res.Match.Rounds))
	}
	for i, r := range res.Match.Rounds {
		if r.Number != i+1 {
			t.Fatalf("round %d has number %d, want contiguous from 1", i, r.Number)
		}
	}

	// alpha starts CT: wins rounds 1-12 (CT), rounds 13-22 won by T are also
	// alpha's after the side swap, rounds 23-24 CT are bravo's, and the OT
	// rounds 25-27 won by CT are bravo's (alpha plays T in the first OT
	// block).
	if res.Match.TeamA.Score != 22 || res.Match.TeamB.Score != 5 {
		t.Fatalf("scores = %d-%d, want 22-5", res.Match.TeamA.Score, res.Match.TeamB.Score)
	}
	if res.WinnerName != "alpha" {
		t.Fatalf("WinnerName = %q, want alpha", res.WinnerName)
	}
	if res.TeamAHalves.FirstHalf != 12 || res.TeamAHalves.SecondHalf != 10 || res.TeamAHalves.Overtime != 0 {
		t.Fatalf("team A halves = %+v, want 12/10/0", res.TeamAHalves)
	}
	if res.TeamBHalves.Overtime != 3 {
		t.Fatalf("team B overtime = %d, want 3", res.TeamBHalves.Overtime)
	}
}

func TestCombineTieHasNoWinner(t *testing.T) {
	p1 := part(match.SideCT, sides(match.SideCT, 3))
	p2 := part(match.SideCT, sides(match.SideT, 3))

	res, err := Combine([]match.Match{p1, p2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Match.TeamA.Score != 3 || res.Match.TeamB.Score != 3 {
		t.Fatalf("scores = %d-%d, want 3-3", res.Match.TeamA.Score, res.Match.TeamB.Score)
	}
	if res.WinnerName != "" {
		t.Fatalf("WinnerName = %q, want empty on a tie", res.WinnerName)
	}
}

func TestParsePartName(t *testing.T) {
	tests := []struct {
		in   string
		base string
		num  int
		ok   bool
	}{
		{"navi-vs-faze-mirage-p1.dem", "navi-vs-faze-mirage", 1, true},
		{"navi-vs-faze-mirage-p12.dem", "navi-vs-faze-mirage", 12, true},
		{"navi-vs-faze-mirage.dem", "", 0, false},
		{"match-p0.dem", "", 0, false},
		{"-p1.dem", "", 0, false},
		{"match-p2.txt", "", 0, false},
	}
	for _, tc := range tests {
		pn, ok := ParsePartName(tc.in)
		if ok != tc.ok {
			t.Errorf("%q: ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && (pn.Base != tc.base || pn.Number != tc.num) {
			t.Errorf("%q: got (%q, %d), want (%q, %d)", tc.in, pn.Base, pn.Number, tc.base, tc.num)
		}
	}
}

func TestGroupParts(t *testing.T) {
	files := []string{
		"final-p2.dem",
		"standalone.dem",
		"final-p1.dem",
		"semis-p1.dem",
	}
	groups := GroupParts(files)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}
	if groups[0].Base != "final" || !reflect.DeepEqual(groups[0].Files, []string{"final-p1.dem", "final-p2.dem"}) {
		t.Errorf("group 0 = %+v, want final parts sorted by number", groups[0])
	}
	if groups[1].Base != "standalone.dem" || len(groups[1].Files) != 1 {
		t.Errorf("group 1 = %+v, want standalone single", groups[1])
	}
	if groups[2].Base != "semis" {
		t.Errorf("group 2 base = %q, want semis", groups[2].Base)
	}
}
