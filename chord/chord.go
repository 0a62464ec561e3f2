package chord

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jsphweid/chiptheory/model"
)

// CreateChordKey joins the distinct midi numbers in ascending order, like
// "57-61-64". notes is not modified.
func CreateChordKey(notes []model.Note) string {
	seen := make(map[int]bool)
	var nums []int
	for _, n := range notes {
		if !seen[n.Pitch.MidiNumber] {
			seen[n.Pitch.MidiNumber] = true
			nums = append(nums, n.Pitch.MidiNumber)
		}
	}
	sort.Ints(nums)

	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

// PitchClasses returns the distinct pitch classes sounding, ascending.
func PitchClasses(notes []model.Note) []int {
	var present [12]bool
	for _, n := range notes {
		present[((n.Pitch.MidiNumber%12)+12)%12] = true
	}
	var res []int
	for pc, ok := range present {
		if ok {
			res = append(res, pc)
		}
	}
	return res
}
