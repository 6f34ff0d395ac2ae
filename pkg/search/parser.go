package search

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldType represents the document field a condition targets
type FieldType string

const (
	FieldAny      FieldType = "any" // name or content
	FieldName     FieldType = "name"
	FieldContent  FieldType = "content"
	FieldLanguage FieldType = "lang"
	FieldID       FieldType = "id"
)

// Operator joins two conditions
type Operator string

const (
	OperatorAND Operator = "AND"
	OperatorOR  Operator = "OR"
)

// Condition represents a single search condition
type Condition struct {
	Field  FieldType
	Value  string
	Negate bool
}

// Query represents a parsed search query
type Query struct {
	Conditions []Condition
	Logic      []Operator // Logic operators between conditions
	Raw        string     // Original query string
}

// Parser handles parsing of search queries
type Parser struct {
	fieldPattern  *regexp.Regexp
	quotedPattern *regexp.Regexp
}

// NewParser creates a new search query parser
func NewParser() *Parser {
	return &Parser{
		fieldPattern:  regexp.MustCompile(`^(\w+):(.+)$`),
		quotedPattern: regexp.MustCompile(`^"([^"]*)"$`),
	}
}

// Parse parses a search query string into a Query object
func (p *Parser) Parse(input string) (*Query, error) {
	query := &Query{
		Raw:        input,
		Conditions: []Condition{},
		Logic:      []Operator{},
	}

	if err := p.parseTokens(p.tokenize(input), query); err != nil {
		return nil, err
	}
	return query, nil
}

// tokenize splits the input on spaces outside double quotes
func (p *Parser) tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	for _, r := range input {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case (r == ' ' || r == '\t') && !inQuotes:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func (p *Parser) parseTokens(tokens []string, query *Query) error {
	pendingOp := Operator("")
	negate := false

	for _, token := range tokens {
		switch strings.ToUpper(token) {
		case "AND", "OR":
			if len(query.Conditions) == 0 {
				return fmt.Errorf("unexpected operator %s at beginning of query", token)
			}
			if pendingOp != "" || negate {
				return fmt.Errorf("unexpected operator %s", token)
			}
			pendingOp = Operator(strings.ToUpper(token))
			continue
		case "NOT":
			negate = !negate
			continue
		}

		cond, err := p.parseCondition(token)
		if err != nil {
			return err
		}
		cond.Negate = cond.Negate != negate
		negate = false

		if len(query.Conditions) > 0 {
			if pendingOp == "" {
				pendingOp = OperatorAND
			}
			query.Logic = append(query.Logic, pendingOp)
		}
		pendingOp = ""
		query.Conditions = append(query.Conditions, *cond)
	}

	if pendingOp != "" {
		return fmt.Errorf("operator %s requires a condition", pendingOp)
	}
	if negate {
		return fmt.Errorf("NOT operator requires a condition")
	}
	return nil
}

func (p *Parser) parseCondition(token string) (*Condition, error) {
	cond := &Condition{Field: FieldAny}
	if strings.HasPrefix(token, "-") && len(token) > 1 {
		cond.Negate = true
		token = token[1:]
	}

	matches := p.fieldPattern.FindStringSubmatch(token)
	if len(matches) != 3 {
		cond.Value = p.unquote(token)
		return cond, nil
	}

	switch strings.ToLower(matches[1]) {
	case "name":
		cond.Field = FieldName
	case "content":
		cond.Field = FieldContent
	case "lang", "language":
		cond.Field = FieldLanguage
	case "id":
		cond.Field = FieldID
	default:
		// Not a known field, so "a:b" is searched literally
		cond.Value = p.unquote(token)
		return cond, nil
	}
	cond.Value = p.unquote(matches[2])
	return cond, nil
}

func (p *Parser) unquote(s string) string {
	if matches := p.quotedPattern.FindStringSubmatch(s); len(matches) == 2 {
		return matches[1]
	}
	return s
}
