package record

// Field names of a land record, in the order the registry emits tuple values.
const (
	FieldID           = "id"
	FieldLocation     = "location"
	FieldArea         = "area"
	FieldSurveyNumber = "surveyNumber"
	FieldOwner        = "owner"
	FieldPrice        = "price"
	FieldIsVerified   = "isVerified"
	FieldDocumentHash = "documentHash"
	FieldImageHash    = "imageHash"
)

// PositionalOrder maps tuple positions to field names.
var PositionalOrder = []string{
	FieldID,
	FieldLocation,
	FieldArea,
	FieldSurveyNumber,
	FieldOwner,
	FieldPrice,
	FieldIsVerified,
	FieldDocumentHash,
	FieldImageHash,
}

var requiredFields = PositionalOrder[:7]

// Raw is a record as received from a source: an ordered tuple, a named
// structure, or both (some decoders expose tuples with named accessors).
type Raw struct {
	Positional []interface{}
	Named      map[string]interface{}
}

// Positional wraps tuple values.
func Positional(values ...interface{}) Raw {
	return Raw{Positional: values}
}

// Named wraps a named-field structure.
func Named(fields map[string]interface{}) Raw {
	return Raw{Named: fields}
}

// fields resolves the raw shape into a name->value mapping.
func (r Raw) fields() (map[string]interface{}, bool) {
	if len(r.Positional) >= len(PositionalOrder) {
		out := make(map[string]interface{}, len(PositionalOrder))
		for i, name := range PositionalOrder {
			out[name] = r.Positional[i]
		}
		return out, true
	}
	if r.Named == nil {
		return nil, false
	}
	for _, name := range requiredFields {
		if _, ok := r.Named[name]; !ok {
			return nil, false
		}
	}
	return r.Named, true
}
