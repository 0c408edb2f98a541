package core

import (
	"errors"
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"fopmanager/pkg/domain"
)

// ShowAll is the predicate that accepts every record.
func ShowAll[T any]() Predicate[T] {
	return func(T) bool { return true }
}

// NameContainsKeywords matches persons whose name contains any keyword as a
// whole word, ignoring case.
func NameContainsKeywords(keywords ...string) Predicate[domain.Person] {
	keywords = normalizeKeywords(keywords)
	return func(p domain.Person) bool {
		for _, kw := range keywords {
			if containsWordFold(p.Name, kw) {
				return true
			}
		}
		return false
	}
}

// TagsContainKeywords matches persons carrying every keyword among their tags,
// ignoring case. An empty keyword list matches everyone.
func TagsContainKeywords(keywords ...string) Predicate[domain.Person] {
	keywords = normalizeKeywords(keywords)
	return func(p domain.Person) bool {
		tags := strings.Join(p.Tags, " ")
		for _, kw := range keywords {
			if !containsWordFold(tags, kw) {
				return false
			}
		}
		return true
	}
}

// GroupsInHouse matches groups owned by house.
func GroupsInHouse(house string) Predicate[domain.Group] {
	return func(g domain.Group) bool { return strings.EqualFold(g.House, house) }
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, kw := range in {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func containsWordFold(sentence, word string) bool {
	for _, w := range strings.Fields(sentence) {
		if strings.EqualFold(w, word) {
			return true
		}
	}
	return false
}

// ErrInvalidExpression wraps compilation and evaluation failures of filter
// expressions.
var ErrInvalidExpression = errors.New("invalid filter expression")

// CompilePersonExpr compiles a boolean expression over person fields, for
// example `major == "CS" && "friends" in tags`. Field names are lower case.
func CompilePersonExpr(expression string) (Predicate[domain.Person], error) {
	return compileExpr(expression, personEnv)
}

// CompileGroupExpr compiles a boolean expression over the group fields name
// and house.
func CompileGroupExpr(expression string) (Predicate[domain.Group], error) {
	return compileExpr(expression, groupEnv)
}

func personEnv(p domain.Person) map[string]any {
	tags := p.SortedTags()
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"name":     p.Name,
		"sex":      p.Sex,
		"birthday": p.Birthday,
		"phone":    p.Phone,
		"email":    p.Email,
		"major":    p.Major,
		"group":    p.Group,
		"tags":     tags,
	}
}

func groupEnv(g domain.Group) map[string]any {
	return map[string]any{"name": g.Name, "house": g.House}
}

// compileExpr type-checks the expression against the zero record's field map
// so unknown fields fail at compile time rather than per record. A record
// whose evaluation errors is treated as not matching.
func compileExpr[T any](expression string, env func(T) map[string]any) (Predicate[T], error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("%w: expression must not be empty", ErrInvalidExpression)
	}
	var zero T
	program, err := exprlang.Compile(expression,
		exprlang.Env(env(zero)),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return exprPredicate(program, env), nil
}

func exprPredicate[T any](program *exprvm.Program, env func(T) map[string]any) Predicate[T] {
	return func(v T) bool {
		out, err := exprlang.Run(program, env(v))
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}
}
