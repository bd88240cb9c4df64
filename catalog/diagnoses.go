package catalog

import "github.com/liamcoop/neurocds/rules"

// Candidate categories.
const (
	CategoryPupil         = "pupil"
	CategoryMotility      = "motility"
	CategoryNeuromuscular = "neuromuscular"
	CategoryOpticNerve    = "optic-nerve"
	CategoryVisualField   = "visual-field"
)

// Pupil

func horner() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "horner",
		Name:     "Horner syndrome",
		Category: CategoryPupil,
		MinScore: 4,
		Criteria: []rules.Criterion{
			{When: `dominance == "dark"`, Weight: 4, Evidence: "Anisocoria greater in dark"},
			{When: `dilationLag`, Weight: 3, Evidence: "Dilation lag of the smaller pupil"},
			{When: `ptosis`, Weight: 2, Evidence: "Mild ptosis"},
			{When: `anhidrosis`, Weight: 2, Evidence: "Ipsilateral anhidrosis"},
			{When: `mioticExposure`, Weight: -3, Evidence: "Miotic exposure offers an alternative explanation"},
		},
		NextSteps: []rules.Step{
			{Text: "Confirm with apraclonidine 0.5% (reversal of anisocoria)"},
			{When: `acute || painful || neuroSigns`, Text: "Urgent CTA head and neck to exclude carotid dissection"},
			{When: `!acute`, Text: "Hydroxyamphetamine 1% to localize pre- versus postganglionic lesion"},
		},
	}
}

func compressiveThirdNerve() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "cn3-compressive",
		Name:     "Compressive third nerve palsy",
		Category: CategoryPupil,
		MinScore: 6,
		Criteria: []rules.Criterion{
			{When: `dominance == "light"`, Weight: 4, Evidence: "Anisocoria greater in light (parasympathetic defect)"},
			{When: `anyPtosis`, Weight: 2, Evidence: "Ptosis"},
			{When: `adduction`, Weight: 2, Evidence: "Adduction deficit"},
			{When: `vertical`, Weight: 2, Evidence: "Vertical gaze deficit"},
			{When: `painful`, Weight: 2, Evidence: "Pain or headache at onset"},
			{When: `headache`, Weight: 1, Evidence: "Headache"},
			{When: `acute`, Weight: 1, Evidence: "Acute onset"},
		},
		NextSteps: []rules.Step{
			{Text: "Emergent CTA or MRA brain to exclude posterior communicating artery aneurysm"},
			{When: `neuroSigns`, Text: "Neurosurgical consultation"},
		},
	}
}

func microvascularThirdNerve() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "cn3-microvascular",
		Name:     "Microvascular third nerve palsy",
		Category: CategoryMotility,
		MinScore: 5,
		Criteria: []rules.Criterion{
			{When: `adduction`, Weight: 2, Evidence: "Adduction deficit"},
			{When: `vertical`, Weight: 2, Evidence: "Vertical gaze deficit"},
			{When: `anyPtosis`, Weight: 1, Evidence: "Ptosis"},
			{When: `pupilSparing && pupilDataComplete`, Weight: 3, Evidence: "Pupil spared on complete measurements"},
			{When: `painful`, Weight: 1, Evidence: "Periorbital ache"},
		},
		NextSteps: []rules.Step{
			{Text: "Check blood pressure, glucose and HbA1c"},
			{Text: "Re-examine pupils within 48 hours; any pupil involvement warrants vascular imaging"},
			{When: `neuroSigns`, Text: "MRI brain; neurological signs are atypical for microvascular palsy"},
		},
	}
}

func adieTonicPupil() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "adie",
		Name:     "Adie tonic pupil",
		Category: CategoryPupil,
		MinScore: 4,
		Criteria: []rules.Criterion{
			{When: `dominance == "light"`, Weight: 3, Evidence: "Anisocoria greater in light"},
			{When: `lightNearDissociation`, Weight: 3, Evidence: "Light-near dissociation"},
			{When: `vermiform`, Weight: 3, Evidence: "Vermiform iris movements"},
			{When: `sluggishReaction`, Weight: 1, Evidence: "Sluggish light reaction"},
		},
		NextSteps: []rules.Step{
			{Text: "Dilute pilocarpine 0.125% for cholinergic supersensitivity"},
			{When: `anyMotilityDeficit || anyPtosis`, Text: "Motility or lid involvement is atypical; exclude third nerve palsy"},
		},
	}
}

func pharmacologicMydriasis() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "pharmacologic-mydriasis",
		Name:     "Pharmacologic mydriasis",
		Category: CategoryPupil,
		MinScore: 5,
		Criteria: []rules.Criterion{
			{When: `dominance == "light"`, Weight: 2, Evidence: "Anisocoria greater in light"},
			{When: `fixedPupil`, Weight: 2, Evidence: "Non-reactive pupil"},
			{When: `mydriaticExposure`, Weight: 5, Evidence: "Mydriatic exposure reported"},
			{When: `!anyPtosis && !anyMotilityDeficit`, Weight: 1, Evidence: "No ptosis or motility deficit"},
		},
		NextSteps: []rules.Step{
			{Text: "Pilocarpine 1%: failure to constrict confirms pharmacologic blockade"},
			{Text: "Review medications, patches and plant exposure"},
		},
	}
}

func pharmacologicMiosis() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "pharmacologic-miosis",
		Name:     "Pharmacologic miosis",
		Category: CategoryPupil,
		MinScore: 5,
		Criteria: []rules.Criterion{
			{When: `dominance == "dark"`, Weight: 2, Evidence: "Anisocoria greater in dark"},
			{When: `mioticExposure`, Weight: 5, Evidence: "Miotic exposure reported"},
		},
		NextSteps: []rules.Step{
			{Text: "Review topical medications (pilocarpine, prostaglandins) and organophosphates"},
		},
	}
}

func physiologicAnisocoria() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "physiologic",
		Name:     "Physiologic anisocoria",
		Category: CategoryPupil,
		MinScore: 4,
		Criteria: []rules.Criterion{
			{When: `anisocoria && dominance == "equal"`, Weight: 3, Evidence: "Anisocoria equal in light and dark"},
			{When: `anisMax < 1.0`, Weight: 2, Evidence: "Anisocoria under 1 mm"},
			{When: `!ptosis && !dilationLag && !hasRAPD`, Weight: 1, Evidence: "No ptosis, dilation lag or RAPD"},
			{When: `acute`, Weight: -2, Evidence: "Acute onset argues against a physiologic cause"},
		},
		NextSteps: []rules.Step{
			{Text: "Review old photographs to establish chronicity"},
		},
	}
}

func argyllRobertson() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "argyll-robertson",
		Name:     "Argyll Robertson pupils",
		Category: CategoryPupil,
		MinScore: 5,
		Criteria: []rules.Criterion{
			{When: `lightNearDissociation`, Weight: 4, Evidence: "Light-near dissociation"},
			{When: `sluggishBilateral`, Weight: 2, Evidence: "Bilateral poor light reaction"},
		},
		NextSteps: []rules.Step{
			{Text: "Treponemal serology (FTA-ABS or TP-PA)"},
			{When: `neuroSigns`, Text: "Lumbar puncture for neurosyphilis"},
		},
	}
}

// Optic nerve

func opticNeuritis() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "optic-neuritis",
		Name:     "Optic neuritis",
		Category: CategoryOpticNerve,
		MinScore: 5,
		Criteria: []rules.Criterion{
			{When: `hasRAPD`, Weight: 3, Evidence: "RAPD"},
			{When: `painOnMovement`, Weight: 4, Evidence: "Pain on eye movement"},
			{When: `colorDeficit`, Weight: 2, Evidence: "Dyschromatopsia"},
			{When: `reducedAcuity`, Weight: 2, Evidence: "Reduced visual acuity"},
			{When: `vfCentralScotoma`, Weight: 2, Evidence: "Central scotoma"},
			{When: `acute`, Weight: 1, Evidence: "Acute onset"},
			{When: `discEdemaUnilateral`, Weight: 1, Evidence: "Unilateral disc swelling (papillitis)"},
		},
		NextSteps: []rules.Step{
			{Text: "MRI brain and orbits with contrast"},
			{Text: "AQP4 and MOG antibodies"},
			{When: `rapdSevere || discEdemaBilateral`, Text: "Atypical features: consider early high-dose corticosteroids"},
		},
	}
}

func nonArteriticIschemicOpticNeuropathy() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "naion",
		Name:     "Non-arteritic anterior ischemic optic neuropathy",
		Category: CategoryOpticNerve,
		MinScore: 5,
		Criteria: []rules.Criterion{
			{When: `discEdemaUnilateral`, Weight: 3, Evidence: "Unilateral disc edema"},
			{When: `vfAltitudinal`, Weight: 4, Evidence: "Altitudinal field defect"},
			{When: `hasRAPD`, Weight: 2, Evidence: "RAPD"},
			{When: `acute`, Weight: 2, Evidence: "Sudden painless onset"},
			{When: `painful`, Weight: -2, Evidence: "Pain favors an inflammatory cause"},
		},
		NextSteps: []rules.Step{
			{Text: "ESR and CRP to exclude giant cell arteritis"},
			{Text: "Screen vascular risk factors and sleep apnea"},
		},
	}
}

func arteriticIschemicOpticNeuropathy() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "aaion",
		Name:     "Arteritic ischemic optic neuropathy (giant cell arteritis)",
		Category: CategoryOpticNerve,
		MinScore: 6,
		Criteria: []rules.Criterion{
			{When: `discEdema || discPallor`, Weight: 2, Evidence: "Optic disc abnormality"},
			{When: `vfAltitudinal`, Weight: 2, Evidence: "Altitudinal field defect"},
			{When: `headache`, Weight: 3, Evidence: "New headache"},
			{When: `reducedAcuity`, Weight: 2, Evidence: "Severe acuity loss"},
			{When: `acute`, Weight: 1, Evidence: "Acute onset"},
			{When: `rapdSevere`, Weight: 2, Evidence: "Dense RAPD"},
		},
		NextSteps: []rules.Step{
			{Text: "Same-day ESR, CRP and platelet count"},
			{Text: "Start high-dose corticosteroids without waiting for biopsy"},
			{Text: "Temporal artery biopsy or ultrasound within two weeks"},
		},
	}
}

func papilledema() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "papilledema",
		Name:     "Papilledema",
		Category: CategoryOpticNerve,
		MinScore: 5,
		Criteria: []rules.Criterion{
			{When: `discEdemaBilateral`, Weight: 5, Evidence: "Bilateral disc edema"},
			{When: `headache`, Weight: 2, Evidence: "Headache"},
			{When: `svpAbsent`, Weight: 2, Evidence: "Absent spontaneous venous pulsations"},
			{When: `vfEnlargedBlindSpot`, Weight: 2, Evidence: "Enlarged blind spot"},
			{When: `abduction`, Weight: 1, Evidence: "Abduction deficit (false-localizing sixth nerve palsy)"},
		},
		NextSteps: []rules.Step{
			{Text: "MRI brain with MR venography"},
			{Text: "Lumbar puncture with opening pressure once imaging excludes a mass"},
			{When: `neuroSigns || headache`, Text: "Same-day emergency department referral"},
		},
	}
}

func compressiveOpticNeuropathy() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "compressive-optic-neuropathy",
		Name:     "Compressive optic neuropathy",
		Category: CategoryOpticNerve,
		MinScore: 5,
		Criteria: []rules.Criterion{
			{When: `discPallor`, Weight: 3, Evidence: "Disc pallor"},
			{When: `hasRAPD`, Weight: 2, Evidence: "RAPD"},
			{When: `colorDeficit`, Weight: 2, Evidence: "Dyschromatopsia"},
			{When: `vfCentralScotoma`, Weight: 1, Evidence: "Central scotoma"},
			{When: `!acute`, Weight: 1, Evidence: "Gradual progression"},
		},
		NextSteps: []rules.Step{
			{Text: "MRI orbits and sella with contrast"},
		},
	}
}

func traumaticOpticNeuropathy() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "traumatic-optic-neuropathy",
		Name:     "Traumatic Optic Neuropathy",
		Category: CategoryOpticNerve,
		MinScore: 6,
		Criteria: []rules.Criterion{
			{When: `trauma`, Weight: 5, Evidence: "Recent head or orbital trauma"},
			{When: `hasRAPD`, Weight: 3, Evidence: "RAPD"},
			{When: `rapdSevere`, Weight: 2, Evidence: "Dense RAPD (3+ or more)"},
			{When: `pallorRapdSameEye`, Weight: 2, Evidence: "Disc pallor in the RAPD eye"},
			{When: `reducedAcuity`, Weight: 2, Evidence: "Reduced visual acuity"},
		},
		NextSteps: []rules.Step{
			{Text: "CT orbits and optic canal (fine cuts)"},
			{Text: "Same-day neuro-ophthalmology review"},
		},
	}
}

func glaucomatousOpticNeuropathy() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "glaucoma",
		Name:     "Glaucomatous optic neuropathy",
		Category: CategoryOpticNerve,
		MinScore: 4,
		Criteria: []rules.Criterion{
			{When: `vfArcuate`, Weight: 4, Evidence: "Arcuate field defect"},
			{When: `hasRAPD`, Weight: 1, Evidence: "Asymmetric RAPD"},
		},
		NextSteps: []rules.Step{
			{Text: "Intraocular pressure, gonioscopy and OCT of the nerve fiber layer"},
		},
	}
}

// Visual field

func chiasmalCompression() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "chiasmal",
		Name:     "Chiasmal compression",
		Category: CategoryVisualField,
		Criteria: []rules.Criterion{
			{When: `vfBitemporal`, Weight: 6, Evidence: "Bitemporal hemianopia"},
			{When: `discPallorBilateral`, Weight: 2, Evidence: "Bilateral disc pallor"},
			{When: `headache`, Weight: 1, Evidence: "Headache"},
			{When: `vfPoor`, Weight: -2, Evidence: "Unreliable visual field"},
		},
		NextSteps: []rules.Step{
			{Text: "MRI sella with contrast"},
			{Text: "Pituitary hormone panel"},
			{When: `vfPoor || !vfAutomated`, Text: "Repeat automated perimetry"},
		},
	}
}

func retrochiasmalLesion() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "retrochiasmal",
		Name:     "Retrochiasmal visual pathway lesion",
		Category: CategoryVisualField,
		Criteria: []rules.Criterion{
			{When: `vfHomonymous`, Weight: 5, Evidence: "Homonymous hemianopia"},
			{When: `vfCongruous`, Weight: 2, Evidence: "Congruous defect (posterior lesion)"},
			{When: `neuroSigns`, Weight: 2, Evidence: "Other neurological signs"},
			{When: `acute`, Weight: 1, Evidence: "Acute onset"},
			{When: `vfPoor`, Weight: -2, Evidence: "Unreliable visual field"},
		},
		NextSteps: []rules.Step{
			{Text: "MRI brain with diffusion-weighted imaging"},
			{When: `acute`, Text: "Stroke pathway referral"},
		},
	}
}

func pituitaryApoplexy() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "pituitary-apoplexy",
		Name:     "Pituitary apoplexy",
		Category: CategoryVisualField,
		MinScore: 6,
		Criteria: []rules.Criterion{
			{When: `vfBitemporal`, Weight: 3, Evidence: "Bitemporal field loss"},
			{When: `headache`, Weight: 3, Evidence: "Sudden severe headache"},
			{When: `acute`, Weight: 3, Evidence: "Acute onset"},
			{When: `anyMotilityDeficit`, Weight: 2, Evidence: "Ophthalmoplegia"},
		},
		NextSteps: []rules.Step{
			{Text: "Emergent MRI sella"},
			{Text: "Serum cortisol and endocrine consultation"},
		},
	}
}

func functionalVisualLoss() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "functional",
		Name:     "Functional visual loss",
		Category: CategoryVisualField,
		MinScore: 4,
		Criteria: []rules.Criterion{
			{When: `vfConstricted`, Weight: 3, Evidence: "Constricted (tubular) field"},
			{When: `reducedAcuity`, Weight: 1, Evidence: "Reported acuity loss"},
			{When: `reducedAcuity && !hasRAPD && pupilDataComplete`, Weight: 2, Evidence: "No RAPD despite reported acuity loss"},
		},
		NextSteps: []rules.Step{
			{Text: "Tangent screen at two distances and optokinetic drum"},
			{Text: "Diagnose only after excluding organic disease"},
		},
	}
}

// Motility

func myastheniaGravis() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "myasthenia",
		Name:     "Myasthenia Gravis",
		Category: CategoryNeuromuscular,
		MinScore: 4,
		Criteria: []rules.Criterion{
			{When: `fatigable`, Weight: 5, Evidence: "Fatigable weakness"},
			{When: `eomPtosis`, Weight: 2, Evidence: "Variable ptosis"},
			{When: `diplopia`, Weight: 2, Evidence: "Diplopia"},
			{When: `pupilSparing`, Weight: 2, Evidence: "Pupils uninvolved"},
			{When: `incomitant`, Weight: 1, Evidence: "Incomitant deviation"},
		},
		NextSteps: []rules.Step{
			{Text: "Ice pack test"},
			{Text: "Acetylcholine receptor and MuSK antibodies"},
			{Text: "CT chest for thymoma"},
			{When: `neuroSigns`, Text: "Ask about bulbar and respiratory symptoms; urgent neurology review"},
		},
	}
}

func sixthNervePalsy() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "cn6",
		Name:     "Sixth nerve palsy",
		Category: CategoryMotility,
		MinScore: 5,
		Criteria: []rules.Criterion{
			{When: `abduction`, Weight: 5, Evidence: "Abduction deficit"},
			{When: `diplopia`, Weight: 2, Evidence: "Horizontal diplopia"},
			{When: `incomitant`, Weight: 2, Evidence: "Incomitant esotropia"},
			{When: `headache`, Weight: 1, Evidence: "Headache"},
		},
		NextSteps: []rules.Step{
			{Text: "Check the optic discs for papilledema"},
			{When: `headache || neuroSigns || discEdema`, Text: "MRI brain with contrast"},
		},
	}
}

func fourthNervePalsy() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "cn4",
		Name:     "Fourth nerve palsy",
		Category: CategoryMotility,
		MinScore: 5,
		Criteria: []rules.Criterion{
			{When: `vertical`, Weight: 4, Evidence: "Vertical deviation"},
			{When: `diplopia`, Weight: 2, Evidence: "Vertical or torsional diplopia"},
			{When: `incomitant`, Weight: 1, Evidence: "Incomitant deviation"},
			{When: `trauma`, Weight: 1, Evidence: "Head trauma"},
		},
		NextSteps: []rules.Step{
			{Text: "Parks-Bielschowsky three-step test"},
			{Text: "Review old photographs for head tilt"},
		},
	}
}

func decompensatedPhoria() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "decompensated-phoria",
		Name:     "Decompensated phoria",
		Category: CategoryMotility,
		MinScore: 5,
		Criteria: []rules.Criterion{
			{When: `diplopia`, Weight: 2, Evidence: "Diplopia"},
			{When: `comitantConfirmed`, Weight: 3, Evidence: "Comitant deviation"},
			{When: `!anyMotilityDeficit`, Weight: 1, Evidence: "Full ductions"},
			{When: `acute`, Weight: -1, Evidence: "Acute onset"},
		},
		NextSteps: []rules.Step{
			{Text: "Prism cover test and fusional amplitudes"},
		},
	}
}

func internuclearOphthalmoplegia() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "ino",
		Name:     "Internuclear ophthalmoplegia",
		Category: CategoryMotility,
		MinScore: 6,
		Criteria: []rules.Criterion{
			{When: `adduction`, Weight: 4, Evidence: "Adduction deficit"},
			{When: `neuroSigns`, Weight: 2, Evidence: "Brainstem signs"},
			{When: `!anyPtosis`, Weight: 1, Evidence: "No ptosis"},
		},
		NextSteps: []rules.Step{
			{Text: "MRI brain with attention to the medial longitudinal fasciculus"},
		},
	}
}

func orbitalApexSyndrome() rules.ScoringRule {
	return rules.ScoringRule{
		ID:       "orbital-apex",
		Name:     "Orbital apex or cavernous sinus syndrome",
		Category: CategoryMotility,
		MinScore: 6,
		Criteria: []rules.Criterion{
			{When: `multipleNerves`, Weight: 4, Evidence: "Multiple ocular motor nerves involved"},
			{When: `hasRAPD`, Weight: 2, Evidence: "Optic nerve involvement"},
			{When: `painful`, Weight: 2, Evidence: "Orbital pain"},
			{When: `anyPtosis`, Weight: 1, Evidence: "Ptosis"},
		},
		NextSteps: []rules.Step{
			{Text: "MRI orbits and cavernous sinus with contrast"},
			{Text: "Blood glucose; exclude invasive fungal sinusitis in diabetics"},
		},
	}
}
