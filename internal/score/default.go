package score

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"git.lost.host/meutraa/circles/internal/game"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// DefaultStore keeps score history in a sqlite database.
type DefaultStore struct {
	Path string
	Log  logrus.FieldLogger
	db   *sql.DB
}

func (s *DefaultStore) Init() error {
	db, err := sql.Open("sqlite3", s.Path)
	if err != nil {
		return fmt.Errorf("unable to open score database: %w", err)
	}

	initStatement := `
	create table if not exists scores
	  (
		  id integer not null primary key,
		  sum text not null,
		  mods text,
		  rate real,
		  points integer,
		  accuracy real,
		  max_combo integer,
		  grade text,
		  stats text,
		  played_at integer
	  );
	create index if not exists scores_sum on scores(sum);
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return fmt.Errorf("unable to create score table: %w", err)
	}

	s.db = db
	return nil
}

func (s *DefaultStore) Deinit() {
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

// hashChart identifies a chart by its source text, falling back to its
// metadata for charts built in memory.
func hashChart(c *game.Chart) string {
	if c.Sum != "" {
		return c.Sum
	}
	m := c.Metadata
	sum := sha256.Sum256([]byte(m.Artist + "\x00" + m.Title + "\x00" + m.Version + "\x00" + m.Creator))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *DefaultStore) Save(c *game.Chart, r Record) error {
	if nil == s.db {
		return ErrNoStore
	}
	stats, err := encodeStats(r.Stats)
	if nil != err {
		return err
	}
	if r.Sum == "" {
		r.Sum = hashChart(c)
	}
	_, err = s.db.Exec(
		"insert into scores(sum, mods, rate, points, accuracy, max_combo, grade, stats, played_at) values(?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.Sum, r.Mods, r.Rate, r.Points, r.Accuracy, r.MaxCombo, string(r.Grade), stats, r.PlayedAt.UnixMilli(),
	)
	if nil != err {
		return fmt.Errorf("unable to save score: %w", err)
	}
	return nil
}

func (s *DefaultStore) Load(c *game.Chart) ([]Record, error) {
	if nil == s.db {
		return nil, ErrNoStore
	}
	rows, err := s.db.Query(
		"select id, sum, mods, rate, points, accuracy, max_combo, grade, stats, played_at from scores where sum = ? order by points desc, id asc",
		hashChart(c),
	)
	if nil != err {
		return nil, fmt.Errorf("unable to load scores: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		var grade, stats string
		var playedAt int64
		if err := rows.Scan(&r.ID, &r.Sum, &r.Mods, &r.Rate, &r.Points, &r.Accuracy, &r.MaxCombo, &grade, &stats, &playedAt); nil != err {
			return nil, fmt.Errorf("unable to read score: %w", err)
		}
		r.Grade = Grade(grade)
		r.PlayedAt = time.UnixMilli(playedAt)
		if r.Stats, err = decodeStats(stats); nil != err {
			s.log().WithField("id", r.ID).Warn("skipping score with unreadable stats")
			continue
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *DefaultStore) log() logrus.FieldLogger {
	if nil == s.Log {
		return logrus.StandardLogger()
	}
	return s.Log
}
