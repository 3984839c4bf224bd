package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/anissawilliams/ai-crew-tutor/model"
)

const maxRatingLine = 1 << 20

// Timestamp layouts accepted when reading; older logs carry no zone.
var ratingTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// JSONLRatingLog appends ratings to a JSON-lines file.
type JSONLRatingLog struct {
	path string
}

func NewJSONLRatingLog(path string) *JSONLRatingLog {
	return &JSONLRatingLog{path: path}
}

func (l *JSONLRatingLog) Path() string {
	return l.path
}

func (l *JSONLRatingLog) Append(r model.RatingRecord) error {
	line, err := jsonAPI.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode rating: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create rating log dir: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open rating log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append rating: %w", err)
	}
	return nil
}

// WriteRatings encodes records as JSON lines.
func WriteRatings(w io.Writer, records []model.RatingRecord) error {
	for _, r := range records {
		line, err := jsonAPI.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode rating: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// LoadAll returns every well-formed record. A missing log is an empty
// result; malformed lines are skipped with a warning.
func (l *JSONLRatingLog) LoadAll() ([]model.RatingRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.RatingRecord{}, nil
		}
		return nil, fmt.Errorf("open rating log: %w", err)
	}
	defer f.Close()

	return ReadRatings(f, l.path)
}

// ReadRatings decodes JSON lines from r. source only labels warnings.
func ReadRatings(r io.Reader, source string) ([]model.RatingRecord, error) {
	records := []model.RatingRecord{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRatingLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		rec, err := decodeRatingLine(line)
		if err != nil {
			log.WithFields(log.Fields{
				"source": source,
				"line":   lineNo,
				"error":  err.Error(),
			}).Warn("Skipping malformed rating line")
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("read rating log: %w", err)
	}
	return records, nil
}

type ratingLine struct {
	UserID      string `json:"user_id"`
	Timestamp   string `json:"timestamp"`
	Persona     string `json:"persona"`
	Question    string `json:"question"`
	UserLevel   int    `json:"user_level"`
	Clarity     int    `json:"clarity"`
	Accuracy    int    `json:"accuracy"`
	Helpfulness int    `json:"helpfulness"`
	Feedback    string `json:"feedback"`
}

func decodeRatingLine(line []byte) (model.RatingRecord, error) {
	var raw ratingLine
	if err := jsonAPI.Unmarshal(line, &raw); err != nil {
		return model.RatingRecord{}, err
	}
	if raw.Persona == "" {
		return model.RatingRecord{}, errors.New("missing persona")
	}

	ts, err := parseRatingTime(raw.Timestamp)
	if err != nil {
		return model.RatingRecord{}, err
	}

	return model.RatingRecord{
		UserID:      raw.UserID,
		Timestamp:   ts,
		Persona:     raw.Persona,
		Question:    raw.Question,
		UserLevel:   raw.UserLevel,
		Clarity:     raw.Clarity,
		Accuracy:    raw.Accuracy,
		Helpfulness: raw.Helpfulness,
		Feedback:    raw.Feedback,
	}, nil
}

func parseRatingTime(s string) (time.Time, error) {
	for _, layout := range ratingTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
