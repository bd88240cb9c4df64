package catalog

import "github.com/liamcoop/neurocds/rules"

const mriBrainOrbits = "MRI brain and orbits with contrast"

func pupilMeasurements() rules.TestRule {
	return rules.TestRule{
		ID:        "pupil-measurements",
		Name:      "Pupil measurements in light and dark",
		Priority:  rules.PriorityHigh,
		Rationale: "Anisocoria cannot be localized without both lighting conditions",
		Technique: "Measure each pupil in bright room light and after 5 seconds of darkness",
		When:      `!pupilDataComplete && (pupilDataAny || anyPtosis)`,
	}
}

func swingingFlashlight() rules.TestRule {
	return rules.TestRule{
		ID:        "swinging-flashlight",
		Name:      "Swinging flashlight test",
		Priority:  rules.PriorityHigh,
		Rationale: "Afferent signs present but RAPD not graded",
		Technique: "Alternate a bright light between eyes for 3 seconds each; grade with neutral density filters",
		When:      `!rapdDocumented && (reducedAcuity || colorDeficit || discPallor || discEdema || vfAny)`,
	}
}

func apraclonidine() rules.TestRule {
	return rules.TestRule{
		ID:        "apraclonidine",
		Name:      "Apraclonidine 0.5% test",
		Priority:  rules.PriorityHigh,
		Rationale: "Reversal of anisocoria confirms oculosympathetic paresis",
		Technique: "One drop in each eye; re-measure in dim light after 45 minutes",
		When:      `dominance == "dark" && (ptosis || dilationLag)`,
	}
}

func dilutePilocarpine() rules.TestRule {
	return rules.TestRule{
		ID:        "pilocarpine-dilute",
		Name:      "Dilute pilocarpine 0.125% test",
		Priority:  rules.PriorityModerate,
		Rationale: "Denervation supersensitivity identifies a tonic pupil",
		Technique: "One drop in each eye; compare constriction after 30 minutes",
		When:      `dominance == "light" && (lightNearDissociation || vermiform || sluggishReaction)`,
	}
}

func pilocarpine() rules.TestRule {
	return rules.TestRule{
		ID:        "pilocarpine",
		Name:      "Pilocarpine 1% test",
		Priority:  rules.PriorityHigh,
		Rationale: "Separates pharmacologic blockade from third nerve palsy",
		Technique: "One drop in the dilated eye; failure to constrict indicates pharmacologic mydriasis",
		When:      `dominance == "light" && fixedPupil`,
	}
}

func ctaNeck() rules.TestRule {
	return rules.TestRule{
		ID:        "cta-neck",
		Name:      "CTA head and neck",
		Priority:  rules.PriorityCritical,
		Rationale: "Acute or painful Horner syndrome may indicate carotid dissection",
		When:      `dominance == "dark" && (acute || painful) && (ptosis || dilationLag)`,
	}
}

func ctaBrain() rules.TestRule {
	return rules.TestRule{
		ID:        "cta-brain",
		Name:      "Emergent CTA or MRA brain",
		Priority:  rules.PriorityCritical,
		Rationale: "Pupil-involving third nerve palsy requires exclusion of aneurysm",
		When:      `dominance == "light" && anyPtosis && (adduction || vertical || diplopia)`,
	}
}

func mriOpticNeuritis() rules.TestRule {
	return rules.TestRule{
		ID:        "mri-optic-neuritis",
		Name:      mriBrainOrbits,
		Priority:  rules.PriorityHigh,
		Rationale: "Optic nerve enhancement and white matter lesions guide demyelinating risk",
		Technique: "Fat-suppressed post-contrast orbital sequences",
		When:      `hasRAPD && (painOnMovement || vfCentralScotoma)`,
	}
}

func mriVisualPathway() rules.TestRule {
	return rules.TestRule{
		ID:        "mri-visual-pathway",
		Name:      mriBrainOrbits,
		Priority:  rules.PriorityHigh,
		Rationale: "Field pattern localizes to the chiasm or retrochiasmal pathway",
		When:      `vfBitemporal || vfHomonymous`,
	}
}

func mriBrainstem() rules.TestRule {
	return rules.TestRule{
		ID:        "mri-brainstem",
		Name:      "MRI brain with attention to brainstem and cavernous sinus",
		Priority:  rules.PriorityHigh,
		Rationale: "Ocular motor deficit with additional signs is not microvascular",
		When:      `anyMotilityDeficit && (neuroSigns || multipleNerves || painful)`,
	}
}

func inflammatoryMarkers() rules.TestRule {
	return rules.TestRule{
		ID:        "inflammatory-markers",
		Name:      "ESR, CRP and platelet count",
		Priority:  rules.PriorityCritical,
		Rationale: "Giant cell arteritis must be excluded before the fellow eye is involved",
		When:      `(discEdema || vfAltitudinal) && (headache || acute)`,
	}
}

func mrVenography() rules.TestRule {
	return rules.TestRule{
		ID:        "mr-venography",
		Name:      "MRI brain with MR venography",
		Priority:  rules.PriorityCritical,
		Rationale: "Bilateral disc edema requires exclusion of mass and venous sinus thrombosis",
		When:      `discEdemaBilateral`,
	}
}

func orbitalCT() rules.TestRule {
	return rules.TestRule{
		ID:        "orbital-ct",
		Name:      "CT orbits and optic canal",
		Priority:  rules.PriorityCritical,
		Rationale: "Trauma with afferent dysfunction: look for canal fracture or hematoma",
		Technique: "Fine axial and coronal cuts through the optic canal",
		When:      `trauma && (hasRAPD || reducedAcuity)`,
	}
}

func icePack() rules.TestRule {
	return rules.TestRule{
		ID:        "ice-pack",
		Name:      "Ice pack test",
		Priority:  rules.PriorityModerate,
		Rationale: "Improvement of ptosis with cooling supports myasthenia",
		Technique: "Ice over the closed lid for 2 minutes; an improvement of 2 mm or more is positive",
		When:      `fatigable && anyPtosis`,
	}
}

func achrAntibodies() rules.TestRule {
	return rules.TestRule{
		ID:        "achr-antibodies",
		Name:      "Acetylcholine receptor antibodies",
		Priority:  rules.PriorityModerate,
		Rationale: "Serologic confirmation of myasthenia",
		When:      `fatigable`,
	}
}

func automatedPerimetry() rules.TestRule {
	return rules.TestRule{
		ID:        "automated-perimetry",
		Name:      "Formal automated perimetry",
		Priority:  rules.PriorityModerate,
		Rationale: "Field defect needs quantification on a reliable automated test",
		Technique: "24-2 SITA Standard; add 10-2 for central defects",
		When:      `(vfAny && !vfAutomated) || vfPoor`,
	}
}

func alternateCover() rules.TestRule {
	return rules.TestRule{
		ID:        "alternate-cover",
		Name:      "Alternate cover test in nine gaze positions",
		Priority:  rules.PriorityModerate,
		Rationale: "Comitance of the deviation has not been documented",
		When:      `diplopia && comitanceUnknown`,
	}
}

func colorVision() rules.TestRule {
	return rules.TestRule{
		ID:        "color-vision",
		Name:      "Color vision testing",
		Priority:  rules.PriorityLow,
		Rationale: "Dyschromatopsia quantifies optic nerve dysfunction",
		Technique: "Ishihara plates, each eye separately",
		When:      `hasRAPD && !colorDeficit`,
	}
}

func oct() rules.TestRule {
	return rules.TestRule{
		ID:        "oct",
		Name:      "OCT of retinal nerve fiber and ganglion cell layers",
		Priority:  rules.PriorityLow,
		Rationale: "Baseline structural measurement of the optic nerve",
		When:      `discPallor || vfArcuate || hasRAPD`,
	}
}

func comprehensiveConcern() *rules.Concern {
	return &rules.Concern{
		Criteria: []rules.Criterion{
			{When: `hasRAPD`, Weight: 2},
			{When: `discPallor`, Weight: 2},
			{When: `colorDeficit`, Weight: 1},
			{When: `reducedAcuity`, Weight: 1},
			{When: `trauma`, Weight: 2},
			{When: `painful`, Weight: 1},
			{When: `acute`, Weight: 1},
		},
		Threshold: 5,
		Test: rules.TestRule{
			ID:        "comprehensive-evaluation",
			Name:      "Comprehensive neuro-ophthalmology evaluation",
			Priority:  rules.PriorityHigh,
			Rationale: "Several high-risk afferent findings together",
		},
	}
}
