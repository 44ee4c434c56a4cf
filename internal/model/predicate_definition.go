package model

import (
	"encoding/json"
	"fmt"
)

// PredicateAction is what happens to a block when its predicate holds.
type PredicateAction string

const (
	PredicateActionShowBlock     PredicateAction = "SHOW_BLOCK"
	PredicateActionHideBlock     PredicateAction = "HIDE_BLOCK"
	PredicateActionEligibleBlock PredicateAction = "ELIGIBLE_BLOCK"
)

// PredicateOperator compares a question scalar with a configured value.
type PredicateOperator string

const (
	PredicateOperatorEqualTo              PredicateOperator = "EQUAL_TO"
	PredicateOperatorNotEqualTo           PredicateOperator = "NOT_EQUAL_TO"
	PredicateOperatorGreaterThan          PredicateOperator = "GREATER_THAN"
	PredicateOperatorGreaterThanOrEqualTo PredicateOperator = "GREATER_THAN_OR_EQUAL_TO"
	PredicateOperatorLessThan             PredicateOperator = "LESS_THAN"
	PredicateOperatorLessThanOrEqualTo    PredicateOperator = "LESS_THAN_OR_EQUAL_TO"
	PredicateOperatorIn                   PredicateOperator = "IN"
	PredicateOperatorNotIn                PredicateOperator = "NOT_IN"
)

var predicateOperatorSymbols = map[PredicateOperator]string{
	PredicateOperatorEqualTo:              "==",
	PredicateOperatorNotEqualTo:           "!=",
	PredicateOperatorGreaterThan:          ">",
	PredicateOperatorGreaterThanOrEqualTo: ">=",
	PredicateOperatorLessThan:             "<",
	PredicateOperatorLessThanOrEqualTo:    "<=",
	PredicateOperatorIn:                   "in",
	PredicateOperatorNotIn:                "not in",
}

// PredicateValue is the comparison value of a predicate, kept in JSON
// form so strings, numbers and lists all round-trip losslessly.
type PredicateValue struct {
	JSON string `json:"value" bson:"value"`
}

// StringPredicateValue builds a value comparing against one string.
func StringPredicateValue(s string) PredicateValue {
	b, _ := json.Marshal(s)
	return PredicateValue{JSON: string(b)}
}

// LongPredicateValue builds a value comparing against one integer.
func LongPredicateValue(v int64) PredicateValue {
	return PredicateValue{JSON: fmt.Sprintf("%d", v)}
}

// StringListPredicateValue builds a value for IN / NOT_IN comparisons.
func StringListPredicateValue(vs []string) PredicateValue {
	b, _ := json.Marshal(vs)
	return PredicateValue{JSON: string(b)}
}

// Decode returns the comparison value as a Go value.
func (v PredicateValue) Decode() (any, error) {
	var out any
	if err := json.Unmarshal([]byte(v.JSON), &out); err != nil {
		return nil, fmt.Errorf("malformed predicate value %q: %w", v.JSON, err)
	}
	return out, nil
}

// PredicateDefinition is a leaf visibility or eligibility condition on
// a block: one question scalar compared against a configured value.
type PredicateDefinition struct {
	Action     PredicateAction   `json:"action" bson:"action"`
	QuestionID int64             `json:"questionId" bson:"questionId"`
	Scalar     Scalar            `json:"scalar" bson:"scalar"`
	Operator   PredicateOperator `json:"operator" bson:"operator"`
	Value      PredicateValue    `json:"value" bson:"value"`
}

// Expression renders the predicate as a boolean expression over the
// scalar's path key, suitable for the expression evaluator.
func (p *PredicateDefinition) Expression() (string, error) {
	symbol, ok := predicateOperatorSymbols[p.Operator]
	if !ok {
		return "", fmt.Errorf("unsupported predicate operator: %s", p.Operator)
	}
	switch p.Operator {
	case PredicateOperatorIn:
		return fmt.Sprintf("%s in %s", p.Scalar.Key(), p.Value.JSON), nil
	case PredicateOperatorNotIn:
		return fmt.Sprintf("not (%s in %s)", p.Scalar.Key(), p.Value.JSON), nil
	default:
		return fmt.Sprintf("%s %s %s", p.Scalar.Key(), symbol, p.Value.JSON), nil
	}
}
