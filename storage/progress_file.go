package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/anissawilliams/ai-crew-tutor/model"
)

var ErrInvalidLearnerID = errors.New("invalid learner id")

// FileProgressStore keeps one progress record in a JSON file.
type FileProgressStore struct {
	path string
}

func NewFileProgressStore(path string) *FileProgressStore {
	return &FileProgressStore{path: path}
}

func (s *FileProgressStore) Path() string {
	return s.path
}

// Load never fails: a missing file yields a fresh record, and an
// unreadable or corrupt one is logged and replaced by a fresh record.
func (s *FileProgressStore) Load() *model.UserProgress {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.WithFields(log.Fields{
				"path":  s.path,
				"error": err.Error(),
			}).Warn("Failed to read progress file, starting from defaults")
		}
		return model.NewUserProgress()
	}

	p := model.NewUserProgress()
	if err := jsonAPI.Unmarshal(data, p); err != nil {
		log.WithFields(log.Fields{
			"path":  s.path,
			"error": err.Error(),
		}).Warn("Corrupt progress file, starting from defaults")
		return model.NewUserProgress()
	}
	p.Normalize()
	return p
}

// Save replaces the whole record. The new content is written to a
// temporary file in the same directory and renamed over the old one.
func (s *FileProgressStore) Save(p *model.UserProgress) error {
	data, err := jsonAPI.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp progress file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write progress: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync progress: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close progress: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}

// ProgressDirectory stores one progress file per learner under dir.
type ProgressDirectory struct {
	dir string
}

func NewProgressDirectory(dir string) *ProgressDirectory {
	return &ProgressDirectory{dir: dir}
}

func (d *ProgressDirectory) storeFor(userID string) (*FileProgressStore, error) {
	if userID == "" || userID == "." || userID == ".." ||
		strings.ContainsAny(userID, `/\`) || filepath.Base(userID) != userID {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLearnerID, userID)
	}
	return NewFileProgressStore(filepath.Join(d.dir, userID+".json")), nil
}

// Load never fails: missing, unreadable and corrupt files all read as
// defaults. The error return matches the database repository.
func (d *ProgressDirectory) Load(userID string) (*model.UserProgress, error) {
	store, err := d.storeFor(userID)
	if err != nil {
		log.WithField("user_id", userID).Warn("Refusing to load progress for invalid learner id")
		return model.NewUserProgress(), nil
	}
	return store.Load(), nil
}

func (d *ProgressDirectory) Save(userID string, p *model.UserProgress) error {
	store, err := d.storeFor(userID)
	if err != nil {
		return err
	}
	return store.Save(p)
}
