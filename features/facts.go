package features

import (
	"reflect"
	"strings"

	"github.com/liamcoop/neurocds/exam"
)

// Kind names the expression type of a feature.
const (
	KindBool     = "bool"
	KindInt      = "int"
	KindString   = "string"
	KindNumber   = "number"   // float64 or null
	KindTriState = "tristate" // true, false or null
)

type factField struct {
	index int
	name  string
	kind  string
}

var (
	triType   = reflect.TypeOf(exam.Tri(0))
	factTable = buildFactTable()
)

func buildFactTable() []factField {
	t := reflect.TypeOf(FeatureSet{})
	fields := make([]factField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		kind := kindOf(f.Type)
		if name == "" || name == "-" || kind == "" {
			continue
		}
		fields = append(fields, factField{index: i, name: name, kind: kind})
	}
	return fields
}

func kindOf(t reflect.Type) string {
	if t == triType {
		return KindTriState
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int:
		return KindInt
	case reflect.String:
		return KindString
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Float64 {
			return KindNumber
		}
	}
	return ""
}

// Schema maps every feature name usable in a rule expression to its kind.
func Schema() map[string]string {
	schema := make(map[string]string, len(factTable))
	for _, f := range factTable {
		schema[f.name] = f.kind
	}
	return schema
}

// Facts flattens the feature set into the activation rule expressions are
// evaluated against. Missing numbers and unset tri-states become nil.
func (fs FeatureSet) Facts() map[string]any {
	v := reflect.ValueOf(fs)
	facts := make(map[string]any, len(factTable))
	for _, f := range factTable {
		fv := v.Field(f.index)
		switch f.kind {
		case KindBool:
			facts[f.name] = fv.Bool()
		case KindInt:
			facts[f.name] = fv.Int()
		case KindString:
			facts[f.name] = fv.String()
		case KindNumber:
			if fv.IsNil() {
				facts[f.name] = nil
			} else {
				facts[f.name] = fv.Elem().Float()
			}
		case KindTriState:
			facts[f.name] = exam.Tri(fv.Int()).Value()
		}
	}
	return facts
}
