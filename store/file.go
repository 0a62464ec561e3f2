package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/chiptheory/model"
	"github.com/jsphweid/chiptheory/util"
	"github.com/sirupsen/logrus"
)

const fileStoreName = "analyses.dat"

// FileStore keeps every track's state in memory and writes them all to one
// gob file. Writes are debounced, so a burst of clicks costs one write.
// States are JSON inside the gob map; gob drops a pointer to zero, such as a
// selection of measure 0.
type FileStore struct {
	*MemoryStore

	path     string
	debounce func(f func())
	writeMu  sync.Mutex
}

func NewFileStore(dir string, delay time.Duration) (*FileStore, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, err
	}
	fs := &FileStore{
		MemoryStore: NewMemoryStore(),
		path:        filepath.Join(dir, fileStoreName),
		debounce:    debounce.New(delay),
	}

	encoded, err := util.ReadBinary[map[string][]byte](fs.path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		for id, data := range encoded {
			var s model.AnalysisState
			if err := json.Unmarshal(data, &s); err != nil {
				return nil, fmt.Errorf("could not decode analysis for %v: %w", id, err)
			}
			fs.MemoryStore.states[id] = Normalize(s)
		}
	}
	return fs, nil
}

func (fs *FileStore) Set(trackId string, s model.AnalysisState) error {
	if err := fs.MemoryStore.Set(trackId, s); err != nil {
		return err
	}
	fs.debounce(func() {
		if err := fs.Flush(); err != nil {
			logrus.WithError(err).WithField("path", fs.path).Error("could not flush analyses")
		}
	})
	return nil
}

// Flush writes the current states now.
func (fs *FileStore) Flush() error {
	fs.MemoryStore.mu.RLock()
	snapshot := make(map[string][]byte, len(fs.MemoryStore.states))
	for id, s := range fs.MemoryStore.states {
		data, err := json.Marshal(s)
		if err != nil {
			fs.MemoryStore.mu.RUnlock()
			return fmt.Errorf("could not encode analysis for %v: %w", id, err)
		}
		snapshot[id] = data
	}
	fs.MemoryStore.mu.RUnlock()

	fs.writeMu.Lock()
	defer fs.writeMu.Unlock()
	return util.CreateBinary(fs.path, snapshot)
}
