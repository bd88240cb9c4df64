package exam

// Reaction is the direct light reaction of one pupil.
type Reaction string

const (
	ReactionUnset    Reaction = ""
	ReactionBrisk    Reaction = "brisk"
	ReactionSluggish Reaction = "sluggish"
	ReactionNone     Reaction = "none"
)

func (r *Reaction) UnmarshalJSON(data []byte) error {
	switch v := Reaction(decodeEnum(data)); v {
	case ReactionBrisk, ReactionSluggish, ReactionNone:
		*r = v
	case "fixed", "nonreactive":
		*r = ReactionNone
	default:
		*r = ReactionUnset
	}
	return nil
}

// Poor reports a sluggish or absent reaction.
func (r Reaction) Poor() bool {
	return r == ReactionSluggish || r == ReactionNone
}

// RAPDGrade is a relative afferent pupillary defect grade for one eye.
// The empty grade means the test was not documented; "none" means it was
// documented and negative.
type RAPDGrade string

const (
	RAPDUnset RAPDGrade = ""
	RAPDNone  RAPDGrade = "none"
	RAPD1     RAPDGrade = "1+"
	RAPD2     RAPDGrade = "2+"
	RAPD3     RAPDGrade = "3+"
	RAPD4     RAPDGrade = "4+"
)

var rapdOrdinal = map[RAPDGrade]int{
	RAPDNone: 0,
	RAPD1:    1,
	RAPD2:    2,
	RAPD3:    3,
	RAPD4:    4,
}

func (g *RAPDGrade) UnmarshalJSON(data []byte) error {
	v := RAPDGrade(decodeEnum(data))
	if _, ok := rapdOrdinal[v]; ok {
		*g = v
		return nil
	}
	switch v {
	case "1", "2", "3", "4":
		*g = v + "+"
	case "0", "absent", "negative":
		*g = RAPDNone
	default:
		*g = RAPDUnset
	}
	return nil
}

// Ordinal maps the grade onto 0..4. Unknown grades are 0.
func (g RAPDGrade) Ordinal() int {
	return rapdOrdinal[g]
}

// Documented reports whether an RAPD result was recorded, positive or not.
func (g RAPDGrade) Documented() bool {
	_, ok := rapdOrdinal[g]
	return ok
}

// TestType is the perimetry technique.
type TestType string

const (
	TestUnset         TestType = ""
	TestConfrontation TestType = "confrontation"
	TestAutomated     TestType = "automated"
	TestGoldmann      TestType = "goldmann"
)

func (t *TestType) UnmarshalJSON(data []byte) error {
	switch v := TestType(decodeEnum(data)); v {
	case TestConfrontation, TestAutomated, TestGoldmann:
		*t = v
	default:
		*t = TestUnset
	}
	return nil
}

// Reliability of the field test.
type Reliability string

const (
	ReliabilityUnset Reliability = ""
	ReliabilityGood  Reliability = "good"
	ReliabilityFair  Reliability = "fair"
	ReliabilityPoor  Reliability = "poor"
)

func (r *Reliability) UnmarshalJSON(data []byte) error {
	switch v := Reliability(decodeEnum(data)); v {
	case ReliabilityGood, ReliabilityFair, ReliabilityPoor:
		*r = v
	default:
		*r = ReliabilityUnset
	}
	return nil
}

// Laterality of the field defect.
type Laterality string

const (
	LateralityUnset Laterality = ""
	LateralityOD    Laterality = "od"
	LateralityOS    Laterality = "os"
	LateralityBoth  Laterality = "both"
)

func (l *Laterality) UnmarshalJSON(data []byte) error {
	switch v := Laterality(decodeEnum(data)); v {
	case LateralityOD, LateralityOS, LateralityBoth:
		*l = v
	case "ou", "bilateral":
		*l = LateralityBoth
	default:
		*l = LateralityUnset
	}
	return nil
}

// Congruity of a homonymous defect.
type Congruity string

const (
	CongruityUnset       Congruity = ""
	CongruityCongruous   Congruity = "congruous"
	CongruityIncongruous Congruity = "incongruous"
)

func (c *Congruity) UnmarshalJSON(data []byte) error {
	switch v := Congruity(decodeEnum(data)); v {
	case CongruityCongruous, CongruityIncongruous:
		*c = v
	default:
		*c = CongruityUnset
	}
	return nil
}
