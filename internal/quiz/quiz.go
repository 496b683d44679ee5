package quiz

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Question is a single multiple-choice question.
type Question struct {
	Text        string   `json:"question" validate:"notblank"`
	Options     []string `json:"options" validate:"len=4,dive,notblank"`
	AnswerIndex int      `json:"answer" validate:"gte=0,lt=4"`
	Explanation string   `json:"explanation" validate:"notblank"`
}

// Correct reports whether option is the right answer to q.
func (q Question) Correct(option int) bool {
	return option == q.AnswerIndex
}

// Quiz is an ordered list of questions on one subject. A quiz is not
// modified after it has been loaded into a session.
type Quiz struct {
	Subject   Subject    `json:"subject" validate:"required,oneof=Maths English Physics Chemistry Biology"`
	Questions []Question `json:"questions" validate:"required,min=1,dive"`
}

// Len returns the number of questions.
func (q Quiz) Len() int { return len(q.Questions) }

func (q Quiz) clone() Quiz {
	out := Quiz{Subject: q.Subject, Questions: make([]Question, len(q.Questions))}
	for i, qq := range q.Questions {
		qq.Options = append([]string(nil), qq.Options...)
		out.Questions[i] = qq
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the structural rules of a quiz and reports every
// violation in a single *MalformedQuizError.
func Validate(q Quiz) error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &MalformedQuizError{Problems: []string{err.Error()}}
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return &MalformedQuizError{Problems: problems}
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Quiz.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be empty"
	case "oneof":
		return fmt.Sprintf("%s %q is not a supported subject", field, fe.Value())
	case "min":
		return fmt.Sprintf("%s must contain at least %s entries", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must contain exactly %s entries, got %d", field, fe.Param(), lenOf(fe.Value()))
	case "gte", "lt":
		return fmt.Sprintf("%s %v is outside [0,%d)", field, fe.Value(), OptionCount)
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}

func lenOf(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.String, reflect.Map:
		return rv.Len()
	}
	return 0
}
