package file

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/chiptheory/model"
)

// TrackId is the dump's file name without its extension.
func TrackId(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func CreateTrackMap(paths []string) map[string]string {
	res := make(map[string]string, len(paths))
	for _, p := range paths {
		res[TrackId(p)] = p
	}
	return res
}

func ParseDump(r io.Reader) (model.ChipStateDump, error) {
	var dump model.ChipStateDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return dump, fmt.Errorf("could not parse chip state dump: %w", err)
	}
	for _, v := range model.Voices {
		for i, p := range dump.Periods(v) {
			if p < -1 {
				return dump, fmt.Errorf("%v sample %d has period %d", v, i, p)
			}
		}
	}
	return dump, nil
}

func ReadDump(path string) (model.ChipStateDump, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.ChipStateDump{}, fmt.Errorf("error reading dump: %w", err)
	}
	defer f.Close()
	return ParseDump(f)
}
