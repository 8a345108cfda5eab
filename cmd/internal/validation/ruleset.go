package validation

import "github.com/go-playground/validator/v10"

// Fields are the submitted form values by field name.
type Fields map[string]string

func (f Fields) Get(name string) string {
	return f[name]
}

// FieldValue is the normalized value of a field and its error, if any.
type FieldValue struct {
	Value string      `json:"value"`
	Error *FieldError `json:"error,omitempty"`
}

type Values map[string]FieldValue

func (v Values) Get(name string) string {
	return v[name].Value
}

// Ruleset maps each form field to the ordered rules it must pass.
type Ruleset struct {
	validate *validator.Validate
	fields   []string
	rules    map[string][]Rule
}

func NewRuleset(validate *validator.Validate) *Ruleset {
	return &Ruleset{validate: validate, rules: make(map[string][]Rule)}
}

func (r *Ruleset) AddRules(field string, rules ...Rule) *Ruleset {
	if _, ok := r.rules[field]; !ok {
		r.fields = append(r.fields, field)
	}
	r.rules[field] = append(r.rules[field], rules...)
	return r
}

// Validate checks every field of the ruleset. The rules of one field stop at
// the first failure; the other fields are still checked. Every field appears in
// the returned values, valid or not.
func (r *Ruleset) Validate(fields Fields) (bool, Values) {
	valid := true
	values := make(Values, len(r.fields))

	for _, name := range r.fields {
		value := fields.Get(name)
		var ferr *FieldError
		for _, rule := range r.rules[name] {
			if value, ferr = rule.Check(r.validate, value, fields); ferr != nil {
				break
			}
		}
		if ferr != nil {
			valid = false
		}
		values[name] = FieldValue{Value: value, Error: ferr}
	}
	return valid, values
}
