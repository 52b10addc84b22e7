package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// compactErrors buckets hit errors by whole millisecond.
func compactErrors(errors []float64) []ErrorBucket {
	counts := map[int]int{}
	for _, e := range errors {
		counts[int(math.Round(e))]++
	}
	out := make([]ErrorBucket, 0, len(counts))
	for offset, count := range counts {
		out = append(out, ErrorBucket{Offset: offset, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

func uncompactErrors(buckets []ErrorBucket) []float64 {
	out := []float64{}
	for _, b := range buckets {
		for i := 0; i < b.Count; i++ {
			out = append(out, float64(b.Offset))
		}
	}
	return out
}

// MeanError is the average hit error in ms, negative when early.
func (s Stats) MeanError() float64 {
	errors := uncompactErrors(s.Errors)
	if len(errors) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range errors {
		sum += e
	}
	return sum / float64(len(errors))
}

func encodeStats(s Stats) (string, error) {
	doc := "{}"
	var err error
	set := func(path string, value interface{}) {
		if nil != err {
			return
		}
		doc, err = sjson.Set(doc, path, value)
	}

	set("counts.300", s.Counts.Hit300)
	set("counts.100", s.Counts.Hit100)
	set("counts.50", s.Counts.Hit50)
	set("counts.miss", s.Counts.Miss)
	set("counts.geki", s.Counts.Geki)
	set("counts.katu", s.Counts.Katu)
	set("ur", s.UnstableRate)
	set("failed", s.Failed)
	set("errors", []int{})
	for _, b := range s.Errors {
		set("errors.-1", []int{b.Offset, b.Count})
	}
	if nil != err {
		return "", fmt.Errorf("unable to encode stats: %w", err)
	}
	return doc, nil
}

func decodeStats(doc string) (Stats, error) {
	if !gjson.Valid(doc) {
		return Stats{}, fmt.Errorf("invalid stats document")
	}
	r := gjson.Parse(doc)
	s := Stats{
		Counts: Counts{
			Hit300: int(r.Get("counts.300").Int()),
			Hit100: int(r.Get("counts.100").Int()),
			Hit50:  int(r.Get("counts.50").Int()),
			Miss:   int(r.Get("counts.miss").Int()),
			Geki:   int(r.Get("counts.geki").Int()),
			Katu:   int(r.Get("counts.katu").Int()),
		},
		UnstableRate: r.Get("ur").Float(),
		Failed:       r.Get("failed").Bool(),
	}
	r.Get("errors").ForEach(func(_, pair gjson.Result) bool {
		v := pair.Array()
		if len(v) == 2 {
			s.Errors = append(s.Errors, ErrorBucket{Offset: int(v[0].Int()), Count: int(v[1].Int())})
		}
		return true
	})
	return s, nil
}
