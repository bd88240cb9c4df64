package catalog

import "github.com/liamcoop/neurocds/rules"

// Guards are listed most severe first.

func guardCompressiveThirdNerve() rules.Guard {
	return rules.Guard{
		ID:      "cn3-compressive",
		Level:   rules.LevelCritical,
		Message: "Possible compressive third nerve palsy. Emergent vascular imaging to exclude aneurysm.",
		When:    `dominance == "light" && anyPtosis && (acute || painful) && (diplopia || neuroSigns)`,
	}
}

func guardPainfulHorner() rules.Guard {
	return rules.Guard{
		ID:      "painful-horner",
		Level:   rules.LevelCritical,
		Message: "Acute painful Horner syndrome. Exclude carotid dissection today.",
		When:    `dominance == "dark" && (ptosis || dilationLag) && acute && painful`,
	}
}

func guardTraumaticOpticNeuropathy() rules.Guard {
	return rules.Guard{
		ID:      "traumatic-optic-neuropathy",
		Level:   rules.LevelCritical,
		Message: "Trauma with afferent dysfunction. Same-day orbital imaging and neuro-ophthalmology review.",
		When:    `trauma && (hasRAPD || reducedAcuity)`,
	}
}

func guardRaisedPressure() rules.Guard {
	return rules.Guard{
		ID:      "raised-intracranial-pressure",
		Level:   rules.LevelCritical,
		Message: "Bilateral disc edema with headache or neurological signs. Exclude raised intracranial pressure emergently.",
		When:    `discEdemaBilateral && (headache || neuroSigns)`,
	}
}

func guardPituitaryApoplexy() rules.Guard {
	return rules.Guard{
		ID:      "pituitary-apoplexy",
		Level:   rules.LevelCritical,
		Message: "Acute headache with bitemporal loss. Exclude pituitary apoplexy.",
		When:    `vfBitemporal && headache && acute`,
	}
}

func guardGiantCellArteritis() rules.Guard {
	return rules.Guard{
		ID:      "giant-cell-arteritis",
		Level:   rules.LevelDanger,
		Message: "Possible arteritic ischemic optic neuropathy. Same-day ESR and CRP; consider corticosteroids.",
		When:    `(discEdema || vfAltitudinal) && headache && reducedAcuity`,
	}
}

func guardBilateralDiscEdema() rules.Guard {
	return rules.Guard{
		ID:      "bilateral-disc-edema",
		Level:   rules.LevelDanger,
		Message: "Bilateral disc edema. Urgent neuroimaging.",
		When:    `discEdemaBilateral`,
	}
}

func guardSevereAcuteRAPD() rules.Guard {
	return rules.Guard{
		ID:      "severe-acute-rapd",
		Level:   rules.LevelDanger,
		Message: "Acute dense RAPD. Urgent optic neuropathy work-up.",
		When:    `rapdSevere && acute`,
	}
}

func guardAcuteHomonymous() rules.Guard {
	return rules.Guard{
		ID:      "acute-homonymous",
		Level:   rules.LevelDanger,
		Message: "Acute homonymous field loss. Evaluate for stroke.",
		When:    `vfHomonymous && acute`,
	}
}

func guardHornerPattern() rules.Guard {
	return rules.Guard{
		ID:      "horner-pattern",
		Level:   rules.LevelWarn,
		Message: "Horner pattern. Arrange pharmacologic confirmation and imaging.",
		When:    `dominance == "dark" && (ptosis || dilationLag)`,
	}
}

func guardParasympatheticPattern() rules.Guard {
	return rules.Guard{
		ID:      "parasympathetic-pattern",
		Level:   rules.LevelWarn,
		Message: "Large pupil with lid or motility involvement. Exclude third nerve palsy.",
		When:    `dominance == "light" && (anyPtosis || anyMotilityDeficit)`,
	}
}

func guardRAPD() rules.Guard {
	return rules.Guard{
		ID:      "rapd",
		Level:   rules.LevelWarn,
		Message: "RAPD present. Optic neuropathy work-up indicated.",
		When:    `hasRAPD`,
	}
}

func guardMyasthenia() rules.Guard {
	return rules.Guard{
		ID:      "myasthenia",
		Level:   rules.LevelWarn,
		Message: "Fatigable ptosis or diplopia. Screen for myasthenia and ask about bulbar symptoms.",
		When:    `fatigable && (anyPtosis || diplopia)`,
	}
}

func guardReliableBitemporal() rules.Guard {
	return rules.Guard{
		ID:      "bitemporal",
		Level:   rules.LevelInfo,
		Message: "Reliable bitemporal defect. Chiasmal imaging recommended.",
		When:    `vfBitemporal && vfReliable`,
	}
}

func guardPhysiologic() rules.Guard {
	return rules.Guard{
		ID:      "physiologic-anisocoria",
		Level:   rules.LevelInfo,
		Message: "Anisocoria equal in light and dark. Likely physiologic.",
		When:    `anisocoria && dominance == "equal"`,
	}
}
