package rules

// Source selects which section of a record a clause reads.
type Source string

const (
	// SourceResponse reads a list of selected options from responses. It is the default.
	SourceResponse Source = "response"

	// SourceToggle reads an enabled flag from toggle_states.
	SourceToggle Source = "toggle"
)

// Target names the question/attribute pair a clause reads.
type Target struct {
	Question  string
	Attribute string

	// Unkeyed is set when the question or attribute is present but not a
	// string. Record keys are always strings, so the target reads nothing.
	Unkeyed bool
}

// Clause is one side of a rule. The concrete type is one of
// ResponseClause, ToggleClause or InertClause.
type Clause interface {
	isClause()
}

// ResponseClause compares a multi-select answer set.
type ResponseClause struct {
	Target
	Op Operator
}

// ToggleClause compares a boolean toggle.
type ToggleClause struct {
	Target
	Op Operator
}

// InertClause is a clause that cannot be evaluated, for example because its
// question or attribute is missing. Rules containing one are skipped.
type InertClause struct {
	Reason string
}

func (ResponseClause) isClause() {}
func (ToggleClause) isClause()   {}
func (InertClause) isClause()    {}

// Operator is the comparison a clause performs. The concrete type is one of
// Equals, MustEqual, MustNotEqual or NoOp.
type Operator interface {
	isOperator()
}

// Equals is the trigger operator of a when clause.
type Equals struct{ Value Value }

// MustEqual asserts the target matches Value.
type MustEqual struct{ Value Value }

// MustNotEqual asserts the target does not match Value.
type MustNotEqual struct{ Value Value }

// NoOp means no supported operator was given. A when clause with NoOp never
// holds; a then clause with NoOp always holds.
type NoOp struct{}

func (Equals) isOperator()       {}
func (MustEqual) isOperator()    {}
func (MustNotEqual) isOperator() {}
func (NoOp) isOperator()         {}
