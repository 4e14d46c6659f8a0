package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// LoggedSet is one performed set from an export file, not yet matched to a
// scheduled session.
type LoggedSet struct {
	Date     time.Time
	Exercise string
	Number   int
	Reps     int
	Weight   *float64
	RPE      *int
}

// ParseCSV reads a training log export: a header row followed by
// date,exercise,set,reps,weight,rpe rows. Weight and rpe may be empty.
// A malformed row fails the whole file so partial imports never happen.
func ParseCSV(r io.Reader) ([]LoggedSet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) < 4 || !strings.EqualFold(header[0], "date") {
		return nil, fmt.Errorf("unexpected header %v, want date,exercise,set,reps,weight,rpe", header)
	}

	var sets []LoggedSet
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		line++

		set, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func parseRecord(record []string) (LoggedSet, error) {
	if len(record) < 4 {
		return LoggedSet{}, fmt.Errorf("want at least 4 fields, got %d", len(record))
	}

	date, err := time.Parse("2006-01-02", record[0])
	if err != nil {
		return LoggedSet{}, fmt.Errorf("parsing date %q: %w", record[0], err)
	}

	exercise := strings.TrimSpace(record[1])
	if exercise == "" {
		return LoggedSet{}, fmt.Errorf("empty exercise name")
	}

	number, err := strconv.Atoi(record[2])
	if err != nil || number < 1 {
		return LoggedSet{}, fmt.Errorf("invalid set number %q", record[2])
	}

	reps, err := strconv.Atoi(record[3])
	if err != nil || reps < 0 {
		return LoggedSet{}, fmt.Errorf("invalid reps %q", record[3])
	}

	set := LoggedSet{Date: date, Exercise: exercise, Number: number, Reps: reps}

	if len(record) > 4 && record[4] != "" {
		w, err := strconv.ParseFloat(record[4], 64)
		if err != nil || w < 0 {
			return LoggedSet{}, fmt.Errorf("invalid weight %q", record[4])
		}
		set.Weight = &w
	}
	if len(record) > 5 && record[5] != "" {
		rpe, err := strconv.Atoi(record[5])
		if err != nil || rpe < 1 || rpe > 10 {
			return LoggedSet{}, fmt.Errorf("invalid rpe %q", record[5])
		}
		set.RPE = &rpe
	}
	return set, nil
}
