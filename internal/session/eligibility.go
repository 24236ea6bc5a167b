package session

import "github.com/desertthunder/uplink/internal/models"

// DefaultSizeThreshold is the total-size cutover above which a single-file
// submission gets progress tracking: 5 MiB. Smaller single uploads finish too
// quickly to be worth a modal.
const DefaultSizeThreshold int64 = 5 * 1024 * 1024

// Eligible reports whether a submission warrants progress tracking, using
// [DefaultSizeThreshold].
func Eligible(sub models.Submission) bool {
	return EligibleWithThreshold(sub, DefaultSizeThreshold)
}

// EligibleWithThreshold applies the eligibility rule with a custom size
// threshold. A non-positive threshold falls back to the default.
//
// A submission qualifies only when its encoding can carry files, and then
// when any single field holds more than one selected file, or the combined
// size of all selected files strictly exceeds the threshold. Zero selected
// files never qualify.
func EligibleWithThreshold(sub models.Submission, threshold int64) bool {
	if threshold <= 0 {
		threshold = DefaultSizeThreshold
	}

	if sub.Encoding != models.EncodingMultipart {
		return false
	}

	count := 0
	var total int64
	for _, field := range sub.Fields {
		if field.Kind != models.FieldFile {
			continue
		}
		if len(field.Files) > 1 {
			return true
		}
		count += len(field.Files)
		for _, file := range field.Files {
			total += file.Size
		}
	}

	if count == 0 {
		return false
	}
	return total > threshold
}
