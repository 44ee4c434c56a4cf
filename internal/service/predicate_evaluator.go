package service

import (
	"errors"

	"github.com/expr-lang/expr"

	"github.com/civiform/civiform-go/internal/applicant"
	"github.com/civiform/civiform-go/internal/model"
)

// PredicateEvaluator decides block visibility and eligibility from an
// applicant's stored answers.
type PredicateEvaluator struct {
	questions ReadOnlyQuestionService
}

// NewPredicateEvaluator creates an evaluator over a question snapshot.
func NewPredicateEvaluator(questions ReadOnlyQuestionService) *PredicateEvaluator {
	return &PredicateEvaluator{questions: questions}
}

// Evaluate runs one predicate against the applicant's answers. An
// unanswered scalar makes the predicate false rather than an error.
func (e *PredicateEvaluator) Evaluate(pred *model.PredicateDefinition, data *applicant.ApplicantData, entity *model.RepeatedEntity) (bool, error) {
	definition := e.questions.GetQuestionDefinition(pred.QuestionID)
	question := applicant.NewApplicantQuestion(definition, data, entity)

	value, ok := e.scalarValue(question, pred.Scalar)
	if !ok {
		return false, nil
	}

	expression, err := pred.Expression()
	if err != nil {
		return false, err
	}

	input := map[string]any{pred.Scalar.Key(): value}
	return evaluateExpression(expression, input)
}

// ShowsBlock folds the predicate's action over its outcome: HIDE_BLOCK
// inverts, everything else shows on a match.
func (e *PredicateEvaluator) ShowsBlock(pred *model.PredicateDefinition, data *applicant.ApplicantData, entity *model.RepeatedEntity) (bool, error) {
	match, err := e.Evaluate(pred, data, entity)
	if err != nil {
		return false, err
	}
	if pred.Action == model.PredicateActionHideBlock {
		return !match, nil
	}
	return match, nil
}

func (e *PredicateEvaluator) scalarValue(question *applicant.ApplicantQuestion, scalar model.Scalar) (any, bool) {
	path := question.ScalarPath(scalar)
	scalars, err := model.Scalars(question.Definition.Type)
	if err != nil {
		return nil, false
	}
	scalarType, ok := scalars[scalar]
	if !ok {
		return nil, false
	}
	switch scalarType {
	case model.ScalarTypeLong, model.ScalarTypeCurrencyCents:
		v, ok := question.Data.ReadLong(path)
		return v, ok
	case model.ScalarTypeDouble:
		v, ok := question.Data.ReadDouble(path)
		return v, ok
	case model.ScalarTypeListOfStrings:
		v, ok := question.Data.ReadStringList(path)
		return v, ok
	case model.ScalarTypeListOfLongs:
		v, ok := question.Data.ReadLongList(path)
		return v, ok
	default:
		// Dates compare as their stored YYYY-MM-DD strings, which order
		// lexicographically the same as chronologically.
		v, ok := question.Data.ReadString(path)
		return v, ok
	}
}

func evaluateExpression(expression string, input map[string]any) (bool, error) {
	program, err := expr.Compile(expression, expr.Env(input))
	if err != nil {
		return false, err
	}

	output, err := expr.Run(program, input)
	if err != nil {
		return false, err
	}

	result, ok := output.(bool)

	if !ok {
		return false, errors.New("expression did not return a boolean")
	}

	return result, nil
}
