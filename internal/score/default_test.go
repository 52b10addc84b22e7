package score

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/circles/internal/game"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestStore(t *testing.T) {
	log, _ := test.NewNullLogger()
	s := &DefaultStore{Path: filepath.Join(t.TempDir(), "scores.db"), Log: log}
	chart := &game.Chart{Sum: "abc"}
	other := &game.Chart{Metadata: game.Metadata{Title: "other"}}

	if err := s.Save(chart, Record{}); !errors.Is(err, ErrNoStore) {
		t.Fatalf("save before init: %v", err)
	}
	if err := s.Init(); nil != err {
		t.Fatal(err)
	}
	defer s.Deinit()

	played := time.UnixMilli(1700000000000)
	records := []Record{
		{Mods: "HD", Rate: 1, Points: 1000, Accuracy: 0.9, MaxCombo: 10, Grade: GradeB, PlayedAt: played},
		{Mods: "DT", Rate: 1.5, Points: 5000, Accuracy: 1, MaxCombo: 40, Grade: GradeSS, PlayedAt: played,
			Stats: Stats{Counts: Counts{Hit300: 40, Geki: 4}, Errors: []ErrorBucket{{-2, 10}, {3, 30}}, UnstableRate: 21}},
	}
	for _, r := range records {
		if err := s.Save(chart, r); nil != err {
			t.Fatal(err)
		}
	}
	if err := s.Save(other, Record{Points: 1}); nil != err {
		t.Fatal(err)
	}

	loaded, err := s.Load(chart)
	if nil != err {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d records, want 2", len(loaded))
	}
	best := loaded[0]
	if best.Points != 5000 || best.Mods != "DT" || best.Grade != GradeSS || best.Sum != "abc" {
		t.Errorf("best record %+v", best)
	}
	if !best.PlayedAt.Equal(played) {
		t.Errorf("played at %v, want %v", best.PlayedAt, played)
	}
	if best.Stats.Counts.Geki != 4 || len(best.Stats.Errors) != 2 || best.Stats.UnstableRate != 21 {
		t.Errorf("stats %+v", best.Stats)
	}

	loaded, err = s.Load(other)
	if nil != err {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].Sum != hashChart(other) {
		t.Errorf("other chart records %+v", loaded)
	}
}
