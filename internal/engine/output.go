package engine

// OutputUnit is one entry of structured output: an annotation when Error is
// empty, a failure otherwise. Locations are JSON Pointers.
type OutputUnit struct {
	KeywordLocation  string
	InstanceLocation string
	Error            string
}

// BasicOutput is the two-variant structured result of applying a node:
// valid with annotations, or invalid with a flat error list. Sibling branch
// results combine with Merge, which is associative and commutative.
type BasicOutput struct {
	valid bool
	units []OutputUnit
}

func validOutput(units ...OutputUnit) BasicOutput {
	return BasicOutput{valid: true, units: units}
}

func invalidOutput(units ...OutputUnit) BasicOutput {
	return BasicOutput{valid: false, units: units}
}

// IsValid reports which variant this output is.
func (o BasicOutput) IsValid() bool { return o.valid }

// Units returns the annotation or error units. Callers must not mutate the
// returned slice.
func (o BasicOutput) Units() []OutputUnit { return o.units }

// Merge sums two outputs. Valid+Valid concatenates annotations; any invalid
// operand makes the sum invalid, keeping only the error units.
func (o BasicOutput) Merge(other BasicOutput) BasicOutput {
	switch {
	case o.valid && other.valid:
		return validOutput(append(append([]OutputUnit{}, o.units...), other.units...)...)
	case o.valid:
		return other
	case other.valid:
		return o
	default:
		return invalidOutput(append(append([]OutputUnit{}, o.units...), other.units...)...)
	}
}

func mergeAll(outs []BasicOutput) BasicOutput {
	sum := validOutput()
	for _, o := range outs {
		sum = sum.Merge(o)
	}
	return sum
}

func errUnit(schemaPath JSONPointer, path *InstancePath, msg string) OutputUnit {
	return OutputUnit{
		KeywordLocation:  schemaPath.String(),
		InstanceLocation: path.Pointer().String(),
		Error:            msg,
	}
}

func annotationUnit(schemaPath JSONPointer, path *InstancePath) OutputUnit {
	return OutputUnit{
		KeywordLocation:  schemaPath.String(),
		InstanceLocation: path.Pointer().String(),
	}
}

// outputFromErrs drains a validator's error sequence into a BasicOutput.
// Leaf validators use it so Apply stays consistent with ValidateErrs.
func outputFromErrs(schemaPath JSONPointer, path *InstancePath, errs ErrorSeq) BasicOutput {
	var units []OutputUnit
	for e := range errs {
		units = append(units, OutputUnit{
			KeywordLocation:  e.SchemaPath.String(),
			InstanceLocation: e.InstancePath.String(),
			Error:            e.Error(),
		})
	}
	if len(units) == 0 {
		return validOutput(annotationUnit(schemaPath, path))
	}
	return invalidOutput(units...)
}
