// Package catalog holds the built-in rule catalogs. Every call returns a
// fresh copy, so callers may modify what they get.
package catalog

import (
	"fmt"
	"sort"

	"github.com/liamcoop/neurocds/rules"
)

// Built-in catalog names.
const (
	NameStarter = "starter"
	NameFull    = "full"
)

var builtins = map[string]func() *rules.Catalog{
	NameStarter: Starter,
	NameFull:    Full,
}

// Builtin returns the built-in catalog with the given name.
func Builtin(name string) (*rules.Catalog, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", rules.ErrCatalogNotFound, name)
	}
	return build(), nil
}

// IsBuiltin reports whether name is a built-in catalog.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Names lists the built-in catalogs in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Full is the complete catalog.
func Full() *rules.Catalog {
	return &rules.Catalog{
		Name:          NameFull,
		Description:   "Complete neuro-ophthalmic differential covering pupil, motility, optic nerve and visual field patterns",
		MaxCandidates: 12,
		Diagnoses: []rules.ScoringRule{
			horner(),
			compressiveThirdNerve(),
			microvascularThirdNerve(),
			adieTonicPupil(),
			pharmacologicMydriasis(),
			pharmacologicMiosis(),
			physiologicAnisocoria(),
			argyllRobertson(),
			opticNeuritis(),
			nonArteriticIschemicOpticNeuropathy(),
			arteriticIschemicOpticNeuropathy(),
			papilledema(),
			compressiveOpticNeuropathy(),
			traumaticOpticNeuropathy(),
			glaucomatousOpticNeuropathy(),
			chiasmalCompression(),
			retrochiasmalLesion(),
			pituitaryApoplexy(),
			functionalVisualLoss(),
			myastheniaGravis(),
			sixthNervePalsy(),
			fourthNervePalsy(),
			decompensatedPhoria(),
			internuclearOphthalmoplegia(),
			orbitalApexSyndrome(),
		},
		Tests: []rules.TestRule{
			pupilMeasurements(),
			swingingFlashlight(),
			apraclonidine(),
			dilutePilocarpine(),
			pilocarpine(),
			ctaNeck(),
			ctaBrain(),
			mriOpticNeuritis(),
			mriVisualPathway(),
			mriBrainstem(),
			inflammatoryMarkers(),
			mrVenography(),
			orbitalCT(),
			icePack(),
			achrAntibodies(),
			automatedPerimetry(),
			alternateCover(),
			colorVision(),
			oct(),
		},
		Concern: comprehensiveConcern(),
		Guards: []rules.Guard{
			guardCompressiveThirdNerve(),
			guardPainfulHorner(),
			guardTraumaticOpticNeuropathy(),
			guardRaisedPressure(),
			guardPituitaryApoplexy(),
			guardGiantCellArteritis(),
			guardBilateralDiscEdema(),
			guardSevereAcuteRAPD(),
			guardAcuteHomonymous(),
			guardHornerPattern(),
			guardParasympatheticPattern(),
			guardRAPD(),
			guardMyasthenia(),
			guardReliableBitemporal(),
			guardPhysiologic(),
		},
	}
}

// Starter is a smaller catalog of the most common presentations.
func Starter() *rules.Catalog {
	return &rules.Catalog{
		Name:          NameStarter,
		Description:   "Common presentations: anisocoria, optic neuropathy, chiasmal loss and ocular motor palsies",
		MaxCandidates: 8,
		Diagnoses: []rules.ScoringRule{
			horner(),
			compressiveThirdNerve(),
			adieTonicPupil(),
			pharmacologicMydriasis(),
			physiologicAnisocoria(),
			opticNeuritis(),
			traumaticOpticNeuropathy(),
			chiasmalCompression(),
			myastheniaGravis(),
			sixthNervePalsy(),
		},
		Tests: []rules.TestRule{
			pupilMeasurements(),
			swingingFlashlight(),
			apraclonidine(),
			ctaNeck(),
			ctaBrain(),
			mriOpticNeuritis(),
			mriVisualPathway(),
			orbitalCT(),
			icePack(),
			automatedPerimetry(),
		},
		Concern: comprehensiveConcern(),
		Guards: []rules.Guard{
			guardCompressiveThirdNerve(),
			guardPainfulHorner(),
			guardTraumaticOpticNeuropathy(),
			guardRaisedPressure(),
			guardHornerPattern(),
			guardRAPD(),
			guardMyasthenia(),
			guardReliableBitemporal(),
		},
	}
}
