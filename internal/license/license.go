// Package license identifies the SPDX license of a working tree.
package license

import (
	"github.com/go-enry/go-license-detector/v4/licensedb"
	"github.com/go-enry/go-license-detector/v4/licensedb/filer"
)

// Matches below this confidence are too speculative to report.
const confidenceThreshold = 0.85

// Detect returns the SPDX identifier of the best license match in dir, or
// an empty string when nothing matches confidently enough. Ties on
// confidence resolve to the lexically smaller identifier so repeated runs
// agree. Detection failures are treated as "no license".
func Detect(dir string) string {
	f, err := filer.FromDirectory(dir)
	if err != nil {
		return ""
	}

	matches, err := licensedb.Detect(f)
	if err != nil {
		return ""
	}

	var bestID string
	var bestConf float32
	for id, match := range matches {
		if match.Confidence < confidenceThreshold {
			continue
		}
		if match.Confidence > bestConf || (match.Confidence == bestConf && (bestID == "" || id < bestID)) {
			bestConf = match.Confidence
			bestID = id
		}
	}
	return bestID
}
