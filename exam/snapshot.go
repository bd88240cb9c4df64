// Package exam holds the raw examination snapshot the decision engine reads.
//
// Every leaf decodes leniently: a malformed value becomes absent, false or
// unset instead of rejecting the snapshot.
package exam

// Snapshot is one patient's examination findings at a point in time.
type Snapshot struct {
	Triage       Triage       `json:"triage"`
	Pupils       Pupils       `json:"pupils"`
	OpticNerve   OpticNerve   `json:"opticNerve"`
	EOM          EOM          `json:"eom"`
	VisualFields VisualFields `json:"visualFields"`
}

// Triage flags from history and screening.
type Triage struct {
	Acute         Flag `json:"acute"`
	Painful       Flag `json:"painful"`
	Headache      Flag `json:"headache"`
	Trauma        Flag `json:"trauma"`
	ReducedAcuity Flag `json:"reducedAcuity"`
	ColorDeficit  Flag `json:"colorDeficit"`
	NeuroSigns    Flag `json:"neuroSigns"`
}

// Pupils holds diameters per eye per lighting condition plus reactivity.
type Pupils struct {
	ODLight Diameter `json:"odLight"`
	OSLight Diameter `json:"osLight"`
	ODDark  Diameter `json:"odDark"`
	OSDark  Diameter `json:"osDark"`

	ReactionOD Reaction `json:"reactionOD"`
	ReactionOS Reaction `json:"reactionOS"`

	RAPDOD RAPDGrade `json:"rapdOD"`
	RAPDOS RAPDGrade `json:"rapdOS"`

	Ptosis                Flag `json:"ptosis"`
	DilationLag           Flag `json:"dilationLag"`
	LightNearDissociation Flag `json:"lightNearDissociation"`
	Vermiform             Flag `json:"vermiform"`
	Anhidrosis            Flag `json:"anhidrosis"`

	MydriaticExposure Flag `json:"mydriaticExposure"`
	MioticExposure    Flag `json:"mioticExposure"`
}

// OpticNerve findings per eye, plus two global signs.
type OpticNerve struct {
	DiscEdemaOD  Flag `json:"discEdemaOD"`
	DiscEdemaOS  Flag `json:"discEdemaOS"`
	DiscPallorOD Flag `json:"discPallorOD"`
	DiscPallorOS Flag `json:"discPallorOS"`
	SVPAbsent    Flag `json:"svpAbsent"`
	Hemorrhages  Flag `json:"hemorrhages"`
}

// EOM is extraocular motility. Deficits and comitance are tri-state.
type EOM struct {
	Ptosis           Flag `json:"ptosis"`
	Diplopia         Flag `json:"diplopia"`
	AbductionDeficit Tri  `json:"abductionDeficit"`
	AdductionDeficit Tri  `json:"adductionDeficit"`
	VerticalDeficit  Tri  `json:"verticalDeficit"`
	Comitant         Tri  `json:"comitant"`
	Fatigable        Flag `json:"fatigable"`
	PainOnMovement   Flag `json:"painOnMovement"`
}

// VisualFields records the field pattern and how far to trust it.
type VisualFields struct {
	Bitemporal        Flag `json:"bitemporal"`
	Homonymous        Flag `json:"homonymous"`
	Altitudinal       Flag `json:"altitudinal"`
	CentralScotoma    Flag `json:"centralScotoma"`
	EnlargedBlindSpot Flag `json:"enlargedBlindSpot"`
	Arcuate           Flag `json:"arcuate"`
	Constricted       Flag `json:"constricted"`

	TestType    TestType    `json:"testType"`
	Reliability Reliability `json:"reliability"`
	Laterality  Laterality  `json:"laterality"`
	Congruity   Congruity   `json:"congruity"`
}
