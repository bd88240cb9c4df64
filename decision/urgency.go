package decision

import (
	"github.com/liamcoop/neurocds/features"
	"github.com/liamcoop/neurocds/rules"
)

// Default banner messages, used when no guard matches.
const (
	MessageNoData           = "No examination data entered yet."
	MessagePupilsIncomplete = "Pupil measurements incomplete. Record both eyes in light and dark to localize anisocoria."
	MessageNoPattern        = "No urgent pattern identified from the findings entered."
)

// Classify returns the banner of the first matching guard, or a default
// that reflects how much data has been entered.
func (e *Engine) Classify(fs features.FeatureSet) Banner {
	return e.classify(fs, fs.Facts())
}

func (e *Engine) classify(fs features.FeatureSet, facts map[string]any) Banner {
	for i, g := range e.catalog.Guards {
		if e.conds.guards[i].Match(facts) {
			return Banner{Level: g.Level, Message: g.Message}
		}
	}
	return defaultBanner(fs)
}

func defaultBanner(fs features.FeatureSet) Banner {
	switch {
	case !fs.Recorded():
		return Banner{Level: rules.LevelNone, Message: MessageNoData}
	case fs.PupilDataAny && !fs.PupilDataComplete:
		return Banner{Level: rules.LevelInfo, Message: MessagePupilsIncomplete}
	default:
		return Banner{Level: rules.LevelNone, Message: MessageNoPattern}
	}
}
