package normalize

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultBodyTypeID is used when no body-type label matches the vehicle
// requirement text.
const DefaultBodyTypeID = 200

var (
	volumeRe = regexp.MustCompile(`(\d+)\s*м[3³]`)
	numberRe = regexp.MustCompile(`\d+`)
)

// WeightTons parses the tons figure out of a combined "<number> т / ..."
// weight/volume string, rounded up to one decimal place. Returns 0 when the
// string carries no parseable number.
func WeightTons(weightVolume string) float64 {
	parts := strings.SplitN(weightVolume, " т", 2)
	raw := strings.ReplaceAll(strings.TrimSpace(parts[0]), ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return math.Ceil(v*10) / 10
}

// VolumeCubic extracts the cubic-meter volume from a vehicle requirement
// string: the number right before the м3/м³ marker, otherwise the last
// number anywhere in the string, otherwise 0.
func VolumeCubic(vehicleType string) int {
	if m := volumeRe.FindStringSubmatch(vehicleType); m != nil {
		v, _ := strconv.Atoi(m[1])
		return v
	}
	numbers := numberRe.FindAllString(vehicleType, -1)
	if len(numbers) == 0 {
		return 0
	}
	v, _ := strconv.Atoi(numbers[len(numbers)-1])
	return v
}

// BodyTypeID resolves the marketplace body-type id by substring containment
// of a known label in the lower-cased vehicle requirement text. Labels are
// tried longest-first so that a more specific label is never shadowed by a
// shorter one; DefaultBodyTypeID is the fallback.
func BodyTypeID(vehicleType string, carTypes map[string]int) int {
	lowered := strings.ToLower(vehicleType)

	labels := make([]string, 0, len(carTypes))
	for label := range carTypes {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if len(labels[i]) != len(labels[j]) {
			return len(labels[i]) > len(labels[j])
		}
		return labels[i] < labels[j]
	})

	for _, label := range labels {
		if label != "" && strings.Contains(lowered, label) {
			return carTypes[label]
		}
	}
	return DefaultBodyTypeID
}
