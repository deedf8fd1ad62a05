// Package classify derives dataset types and human-readable case labels
// from scan filenames.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/medseg/scanflow/internal/model"
)

// View selects which screen's naming rules DisplayName applies. The
// predictions view rewrites heart cases to "Heart Case N" while the
// corrected-tasks view leaves heart names untouched. The two screens
// have always disagreed here; the divergence is kept as an explicit
// parameter pending product confirmation rather than silently unified.
type View int

const (
	// ViewPredictions formats names for the predictions/review screen.
	ViewPredictions View = iota
	// ViewCorrected formats names for the corrected-tasks screen.
	ViewCorrected
)

var (
	brainCaseRegex = regexp.MustCompile(`(?i)brats[_-]?0*(\d+)`)
	heartCaseRegex = regexp.MustCompile(`(?i)la_0*(\d+)`)
)

const (
	brainMarker = "brats"
	heartMarker = "la_"
)

// Classify determines the dataset type from a scan filename. The brain
// marker wins over the heart marker; anything else, including the empty
// string, is Unknown. Pure function, never fails.
func Classify(filename string) model.DatasetType {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, brainMarker):
		return model.DatasetBrain
	case strings.Contains(lower, heartMarker):
		return model.DatasetHeart
	default:
		return model.DatasetUnknown
	}
}

// DisplayName rewrites a scan or task name into the label shown to the
// user. Numbered brain-case tokens become "Case N" in every view;
// numbered heart-case tokens become "Heart Case N" only in the
// predictions view. Unrecognized names fall back to the first
// underscore-separated segment with extensions stripped.
func DisplayName(name string, view View) string {
	trimmed := TrimExtensions(name)

	if m := brainCaseRegex.FindStringSubmatch(trimmed); m != nil {
		return "Case " + stripLeadingZeros(m[1])
	}

	if m := heartCaseRegex.FindStringSubmatch(trimmed); m != nil {
		if view == ViewPredictions {
			return "Heart Case " + stripLeadingZeros(m[1])
		}
		return name
	}

	if segment, _, found := strings.Cut(trimmed, "_"); found {
		return segment
	}
	return trimmed
}

// TrimExtensions removes the imaging extensions (.nii, .nii.gz, .zip)
// from a filename, leaving other dots alone.
func TrimExtensions(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".nii.gz"):
		return name[:len(name)-len(".nii.gz")]
	case strings.HasSuffix(lower, ".nii"):
		return name[:len(name)-len(".nii")]
	case strings.HasSuffix(lower, ".zip"):
		return name[:len(name)-len(".zip")]
	default:
		return name
	}
}

func stripLeadingZeros(digits string) string {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return digits
	}
	return strconv.Itoa(n)
}
