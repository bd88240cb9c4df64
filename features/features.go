// Package features derives the flat, typed feature set every rule in a
// catalog is written against.
package features

import "github.com/liamcoop/neurocds/exam"

// DefaultAnisocoriaThreshold is the asymmetry, in mm, at which anisocoria
// counts as clinically meaningful.
const DefaultAnisocoriaThreshold = 0.5

// Config holds the deriver's only tunable.
type Config struct {
	AnisocoriaThreshold float64
}

// DefaultConfig returns the standard 0.5 mm threshold.
func DefaultConfig() Config {
	return Config{AnisocoriaThreshold: DefaultAnisocoriaThreshold}
}

// Dominance names the lighting condition with the larger anisocoria.
type Dominance string

const (
	DominanceNone  Dominance = ""
	DominanceLight Dominance = "light"
	DominanceDark  Dominance = "dark"
	DominanceEqual Dominance = "equal"
)

// Eye is "od", "os" or "" when no single eye is implicated.
type Eye string

const (
	EyeNone Eye = ""
	EyeOD   Eye = "od"
	EyeOS   Eye = "os"
)

// FeatureSet is the derived, immutable view of one snapshot. JSON names are
// also the identifiers available to rule expressions.
//
// Numeric fields are nil when the underlying measurement is missing. Tri
// fields keep "not examined" distinct from "examined and normal"; the
// derived booleans next to them (abduction, incomitant, ...) are only true
// on a recorded positive.
type FeatureSet struct {
	// Pupils
	ODLight               *float64  `json:"odLight"`
	OSLight               *float64  `json:"osLight"`
	ODDark                *float64  `json:"odDark"`
	OSDark                *float64  `json:"osDark"`
	AnisLight             *float64  `json:"anisLight"`
	AnisDark              *float64  `json:"anisDark"`
	AnisMax               *float64  `json:"anisMax"`
	MeetsLight            bool      `json:"meetsLight"`
	MeetsDark             bool      `json:"meetsDark"`
	Anisocoria            bool      `json:"anisocoria"`
	Dominance             Dominance `json:"dominance"`
	LargerEyeLight        Eye       `json:"largerEyeLight"`
	LargerEyeDark         Eye       `json:"largerEyeDark"`
	PupilDataAny          bool      `json:"pupilDataAny"`
	PupilDataComplete     bool      `json:"pupilDataComplete"`
	PupilSparing          bool      `json:"pupilSparing"`
	ReactionOD            string    `json:"reactionOD"`
	ReactionOS            string    `json:"reactionOS"`
	SluggishReaction      bool      `json:"sluggishReaction"`
	SluggishBilateral     bool      `json:"sluggishBilateral"`
	FixedPupil            bool      `json:"fixedPupil"`
	RAPDGradeOD           int       `json:"rapdGradeOD"`
	RAPDGradeOS           int       `json:"rapdGradeOS"`
	RAPDMax               int       `json:"rapdMax"`
	RAPDDocumented        bool      `json:"rapdDocumented"`
	HasRAPD               bool      `json:"hasRAPD"`
	RAPDSignificant       bool      `json:"rapdSignificant"`
	RAPDSevere            bool      `json:"rapdSevere"`
	RAPDEye               Eye       `json:"rapdEye"`
	Ptosis                bool      `json:"ptosis"`
	DilationLag           bool      `json:"dilationLag"`
	LightNearDissociation bool      `json:"lightNearDissociation"`
	Vermiform             bool      `json:"vermiform"`
	Anhidrosis            bool      `json:"anhidrosis"`
	MydriaticExposure     bool      `json:"mydriaticExposure"`
	MioticExposure        bool      `json:"mioticExposure"`

	// Triage
	Acute         bool `json:"acute"`
	Painful       bool `json:"painful"`
	Headache      bool `json:"headache"`
	Trauma        bool `json:"trauma"`
	ReducedAcuity bool `json:"reducedAcuity"`
	ColorDeficit  bool `json:"colorDeficit"`
	NeuroSigns    bool `json:"neuroSigns"`

	// Optic nerve
	DiscEdemaOD         bool `json:"discEdemaOD"`
	DiscEdemaOS         bool `json:"discEdemaOS"`
	DiscPallorOD        bool `json:"discPallorOD"`
	DiscPallorOS        bool `json:"discPallorOS"`
	DiscEdema           bool `json:"discEdema"`
	DiscEdemaBilateral  bool `json:"discEdemaBilateral"`
	DiscEdemaUnilateral bool `json:"discEdemaUnilateral"`
	DiscPallor          bool `json:"discPallor"`
	DiscPallorBilateral bool `json:"discPallorBilateral"`
	SVPAbsent           bool `json:"svpAbsent"`
	Hemorrhages         bool `json:"hemorrhages"`
	PallorRAPDSameEye   bool `json:"pallorRapdSameEye"`
	EdemaRAPDSameEye    bool `json:"edemaRapdSameEye"`

	// Motility
	EOMPtosis          bool     `json:"eomPtosis"`
	AnyPtosis          bool     `json:"anyPtosis"`
	Diplopia           bool     `json:"diplopia"`
	Fatigable          bool     `json:"fatigable"`
	PainOnMovement     bool     `json:"painOnMovement"`
	AbductionDeficit   exam.Tri `json:"abductionDeficit"`
	AdductionDeficit   exam.Tri `json:"adductionDeficit"`
	VerticalDeficit    exam.Tri `json:"verticalDeficit"`
	Comitant           exam.Tri `json:"comitant"`
	Abduction          bool     `json:"abduction"`
	Adduction          bool     `json:"adduction"`
	Vertical           bool     `json:"vertical"`
	Incomitant         bool     `json:"incomitant"`
	ComitantConfirmed  bool     `json:"comitantConfirmed"`
	ComitanceUnknown   bool     `json:"comitanceUnknown"`
	AnyMotilityDeficit bool     `json:"anyMotilityDeficit"`
	MultipleNerves     bool     `json:"multipleNerves"`
	ThirdNervePattern  bool     `json:"thirdNervePattern"`

	// Visual fields
	VFBitemporal        bool   `json:"vfBitemporal"`
	VFHomonymous        bool   `json:"vfHomonymous"`
	VFAltitudinal       bool   `json:"vfAltitudinal"`
	VFCentralScotoma    bool   `json:"vfCentralScotoma"`
	VFEnlargedBlindSpot bool   `json:"vfEnlargedBlindSpot"`
	VFArcuate           bool   `json:"vfArcuate"`
	VFConstricted       bool   `json:"vfConstricted"`
	VFAny               bool   `json:"vfAny"`
	VFTestType          string `json:"vfTestType"`
	VFReliability       string `json:"vfReliability"`
	VFLaterality        string `json:"vfLaterality"`
	VFCongruity         string `json:"vfCongruity"`
	VFReliable          bool   `json:"vfReliable"`
	VFPoor              bool   `json:"vfPoor"`
	VFAutomated         bool   `json:"vfAutomated"`
	VFCongruous         bool   `json:"vfCongruous"`
	VFIncongruous       bool   `json:"vfIncongruous"`

	Readiness Readiness `json:"readiness"`
}

// Readiness reports which exam modules carry a minimum viable data set.
type Readiness struct {
	Pupils       bool `json:"pupils"`
	EOM          bool `json:"eom"`
	VisualFields bool `json:"visualFields"`
	OpticNerve   bool `json:"opticNerve"`
}

// Any reports whether at least one module is ready.
func (r Readiness) Any() bool {
	return r.Pupils || r.EOM || r.VisualFields || r.OpticNerve
}

// Recorded reports whether the snapshot behind fs held any finding at all,
// including ones too sparse to make a module ready.
func (fs FeatureSet) Recorded() bool {
	pupils := fs.PupilDataAny || fs.ReactionOD != "" || fs.ReactionOS != "" || fs.RAPDDocumented ||
		fs.Ptosis || fs.DilationLag || fs.LightNearDissociation || fs.Vermiform || fs.Anhidrosis ||
		fs.MydriaticExposure || fs.MioticExposure
	triage := fs.Acute || fs.Painful || fs.Headache || fs.Trauma || fs.ReducedAcuity ||
		fs.ColorDeficit || fs.NeuroSigns
	fields := fs.VFReliability != "" || fs.VFLaterality != "" || fs.VFCongruity != ""
	return fs.Readiness.Any() || pupils || triage || fields
}
