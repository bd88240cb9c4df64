package features

import (
	"encoding/json"
	"math"

	"github.com/liamcoop/neurocds/exam"
)

// Derive normalizes a snapshot into a FeatureSet. It is total: missing or
// malformed input degrades to nil, false or unset.
func Derive(s exam.Snapshot, cfg Config) FeatureSet {
	threshold := cfg.AnisocoriaThreshold
	if threshold <= 0 || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		threshold = DefaultAnisocoriaThreshold
	}

	var fs FeatureSet
	derivePupils(&fs, s.Pupils, threshold)
	deriveTriage(&fs, s.Triage)
	deriveOpticNerve(&fs, s.OpticNerve)
	deriveMotility(&fs, s.EOM)
	deriveFields(&fs, s.VisualFields)
	fs.Readiness = readiness(&fs, s)
	return fs
}

func derivePupils(fs *FeatureSet, p exam.Pupils, threshold float64) {
	fs.ODLight = p.ODLight.Ptr()
	fs.OSLight = p.OSLight.Ptr()
	fs.ODDark = p.ODDark.Ptr()
	fs.OSDark = p.OSDark.Ptr()

	fs.AnisLight = absDiff(fs.ODLight, fs.OSLight)
	fs.AnisDark = absDiff(fs.ODDark, fs.OSDark)
	fs.AnisMax = maxOf(fs.AnisLight, fs.AnisDark)
	fs.MeetsLight = fs.AnisLight != nil && *fs.AnisLight >= threshold
	fs.MeetsDark = fs.AnisDark != nil && *fs.AnisDark >= threshold
	fs.Anisocoria = fs.MeetsLight || fs.MeetsDark
	fs.Dominance = dominance(fs.AnisLight, fs.AnisDark, fs.MeetsLight, fs.MeetsDark)
	fs.LargerEyeLight = largerEye(fs.ODLight, fs.OSLight)
	fs.LargerEyeDark = largerEye(fs.ODDark, fs.OSDark)

	fs.PupilDataAny = fs.ODLight != nil || fs.OSLight != nil || fs.ODDark != nil || fs.OSDark != nil
	fs.PupilDataComplete = fs.ODLight != nil && fs.OSLight != nil && fs.ODDark != nil && fs.OSDark != nil
	// No anisocoria reaching threshold, including no pupil data at all.
	fs.PupilSparing = fs.Dominance == DominanceNone

	fs.ReactionOD = string(p.ReactionOD)
	fs.ReactionOS = string(p.ReactionOS)
	fs.SluggishReaction = p.ReactionOD.Poor() || p.ReactionOS.Poor()
	fs.SluggishBilateral = p.ReactionOD.Poor() && p.ReactionOS.Poor()
	fs.FixedPupil = p.ReactionOD == exam.ReactionNone || p.ReactionOS == exam.ReactionNone

	fs.RAPDGradeOD = p.RAPDOD.Ordinal()
	fs.RAPDGradeOS = p.RAPDOS.Ordinal()
	fs.RAPDMax = max(fs.RAPDGradeOD, fs.RAPDGradeOS)
	fs.RAPDDocumented = p.RAPDOD.Documented() || p.RAPDOS.Documented()
	fs.HasRAPD = fs.RAPDMax > 0
	fs.RAPDSignificant = fs.RAPDMax >= 2
	fs.RAPDSevere = fs.RAPDMax >= 3
	switch {
	case fs.RAPDGradeOD > fs.RAPDGradeOS:
		fs.RAPDEye = EyeOD
	case fs.RAPDGradeOS > fs.RAPDGradeOD:
		fs.RAPDEye = EyeOS
	}

	fs.Ptosis = bool(p.Ptosis)
	fs.DilationLag = bool(p.DilationLag)
	fs.LightNearDissociation = bool(p.LightNearDissociation)
	fs.Vermiform = bool(p.Vermiform)
	fs.Anhidrosis = bool(p.Anhidrosis)
	fs.MydriaticExposure = bool(p.MydriaticExposure)
	fs.MioticExposure = bool(p.MioticExposure)
}

// dominance is nil unless some condition meets threshold. With both values
// present the strictly larger wins; a single present value wins alone.
func dominance(light, dark *float64, meetsLight, meetsDark bool) Dominance {
	if !meetsLight && !meetsDark {
		return DominanceNone
	}
	switch {
	case light != nil && dark != nil:
		switch {
		case *light > *dark:
			return DominanceLight
		case *dark > *light:
			return DominanceDark
		default:
			return DominanceEqual
		}
	case light != nil:
		return DominanceLight
	default:
		return DominanceDark
	}
}

func deriveTriage(fs *FeatureSet, t exam.Triage) {
	fs.Acute = bool(t.Acute)
	fs.Painful = bool(t.Painful)
	fs.Headache = bool(t.Headache)
	fs.Trauma = bool(t.Trauma)
	fs.ReducedAcuity = bool(t.ReducedAcuity)
	fs.ColorDeficit = bool(t.ColorDeficit)
	fs.NeuroSigns = bool(t.NeuroSigns)
}

func deriveOpticNerve(fs *FeatureSet, o exam.OpticNerve) {
	fs.DiscEdemaOD = bool(o.DiscEdemaOD)
	fs.DiscEdemaOS = bool(o.DiscEdemaOS)
	fs.DiscPallorOD = bool(o.DiscPallorOD)
	fs.DiscPallorOS = bool(o.DiscPallorOS)
	fs.DiscEdema = fs.DiscEdemaOD || fs.DiscEdemaOS
	fs.DiscEdemaBilateral = fs.DiscEdemaOD && fs.DiscEdemaOS
	fs.DiscEdemaUnilateral = fs.DiscEdema && !fs.DiscEdemaBilateral
	fs.DiscPallor = fs.DiscPallorOD || fs.DiscPallorOS
	fs.DiscPallorBilateral = fs.DiscPallorOD && fs.DiscPallorOS
	fs.SVPAbsent = bool(o.SVPAbsent)
	fs.Hemorrhages = bool(o.Hemorrhages)

	// RAPD is derived first; both composites need it localized to one eye.
	fs.PallorRAPDSameEye = sameEye(fs.RAPDEye, fs.DiscPallorOD, fs.DiscPallorOS)
	fs.EdemaRAPDSameEye = sameEye(fs.RAPDEye, fs.DiscEdemaOD, fs.DiscEdemaOS)
}

func sameEye(eye Eye, od, os bool) bool {
	switch eye {
	case EyeOD:
		return od
	case EyeOS:
		return os
	}
	return false
}

func deriveMotility(fs *FeatureSet, m exam.EOM) {
	fs.EOMPtosis = bool(m.Ptosis)
	fs.AnyPtosis = fs.Ptosis || fs.EOMPtosis
	fs.Diplopia = bool(m.Diplopia)
	fs.Fatigable = bool(m.Fatigable)
	fs.PainOnMovement = bool(m.PainOnMovement)

	fs.AbductionDeficit = m.AbductionDeficit
	fs.AdductionDeficit = m.AdductionDeficit
	fs.VerticalDeficit = m.VerticalDeficit
	fs.Comitant = m.Comitant

	fs.Abduction = m.AbductionDeficit.IsTrue()
	fs.Adduction = m.AdductionDeficit.IsTrue()
	fs.Vertical = m.VerticalDeficit.IsTrue()
	fs.Incomitant = m.Comitant.IsFalse()
	fs.ComitantConfirmed = m.Comitant.IsTrue()
	fs.ComitanceUnknown = !m.Comitant.IsSet()
	fs.AnyMotilityDeficit = fs.Abduction || fs.Adduction || fs.Vertical
	fs.MultipleNerves = fs.Abduction && (fs.Adduction || fs.Vertical)
	fs.ThirdNervePattern = fs.Adduction && fs.Vertical
}

func deriveFields(fs *FeatureSet, v exam.VisualFields) {
	fs.VFBitemporal = bool(v.Bitemporal)
	fs.VFHomonymous = bool(v.Homonymous)
	fs.VFAltitudinal = bool(v.Altitudinal)
	fs.VFCentralScotoma = bool(v.CentralScotoma)
	fs.VFEnlargedBlindSpot = bool(v.EnlargedBlindSpot)
	fs.VFArcuate = bool(v.Arcuate)
	fs.VFConstricted = bool(v.Constricted)
	fs.VFAny = fs.VFBitemporal || fs.VFHomonymous || fs.VFAltitudinal || fs.VFCentralScotoma ||
		fs.VFEnlargedBlindSpot || fs.VFArcuate || fs.VFConstricted

	fs.VFTestType = string(v.TestType)
	fs.VFReliability = string(v.Reliability)
	fs.VFLaterality = string(v.Laterality)
	fs.VFCongruity = string(v.Congruity)
	fs.VFPoor = v.Reliability == exam.ReliabilityPoor
	fs.VFReliable = !fs.VFPoor
	fs.VFAutomated = v.TestType == exam.TestAutomated
	fs.VFCongruous = v.Congruity == exam.CongruityCongruous
	fs.VFIncongruous = v.Congruity == exam.CongruityIncongruous
}

// readiness applies each module's minimum-data predicate.
func readiness(fs *FeatureSet, s exam.Snapshot) Readiness {
	m := s.EOM
	return Readiness{
		Pupils: fs.PupilDataComplete,
		EOM: fs.EOMPtosis || fs.Diplopia || fs.Fatigable || fs.PainOnMovement ||
			m.AbductionDeficit.IsSet() || m.AdductionDeficit.IsSet() ||
			m.VerticalDeficit.IsSet() || m.Comitant.IsSet(),
		VisualFields: fs.VFAny || fs.VFTestType != "",
		OpticNerve: fs.DiscEdema || fs.DiscPallor || fs.SVPAbsent || fs.Hemorrhages ||
			fs.RAPDDocumented,
	}
}

func absDiff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := math.Abs(*a - *b)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return nil
	}
	return &d
}

func maxOf(a, b *float64) *float64 {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case *a >= *b:
		return a
	default:
		return b
	}
}

func largerEye(od, os *float64) Eye {
	if od == nil || os == nil {
		return EyeNone
	}
	switch {
	case *od > *os:
		return EyeOD
	case *os > *od:
		return EyeOS
	}
	return EyeNone
}

func (d Dominance) MarshalJSON() ([]byte, error) {
	if d == DominanceNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(d))
}

func (e Eye) MarshalJSON() ([]byte, error) {
	if e == EyeNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(e))
}
