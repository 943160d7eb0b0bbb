package form

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"advanced-form/pkg/validation"
)

// MinPasswordLength applies to every form version.
const MinPasswordLength = 6

var (
	nameRules = []validation.Rule{
		{Tag: "not_blank", Kind: validation.ErrRequired, Message: "Nome é obrigatório"},
		{Tag: "valid_utf8", Kind: validation.ErrFormat, Message: "O nome contém caracteres inválidos"},
	}
	emailRules = []validation.Rule{
		{Tag: "required", Kind: validation.ErrRequired, Message: "O email é obrigatório"},
		{Tag: "valid_utf8", Kind: validation.ErrFormat, Message: "Formato de email inválido"},
		{Tag: "email", Kind: validation.ErrFormat, Message: "Formato de email inválido"},
	}
	passwordRules = []validation.Rule{
		{Tag: "required", Kind: validation.ErrRequired, Message: "A senha é obrigatória"},
		{Tag: "valid_utf8", Kind: validation.ErrFormat, Message: "A senha contém caracteres inválidos"},
		{
			Tag:     fmt.Sprintf("min=%d", MinPasswordLength),
			Kind:    validation.ErrLength,
			Message: fmt.Sprintf("A senha deve conter no mínimo %d caracteres", MinPasswordLength),
		},
	}
	avatarRules = []validation.Rule{
		{Tag: "required", Kind: validation.ErrRequired, Message: "O avatar é obrigatório"},
		{Tag: "valid_utf8", Kind: validation.ErrFormat, Message: "O nome do arquivo do avatar é inválido"},
	}
	avatarSizeRules = []validation.Rule{
		{Tag: fmt.Sprintf("max=%d", MaxAvatarSize), Kind: validation.ErrSize, Message: "O avatar deve ter no máximo 5MB"},
	}
	techsRules = []validation.Rule{
		{Tag: "min=1", Kind: validation.ErrMinCount, Message: "Adicione pelo menos uma tecnologia"},
	}
	techTitleRules = []validation.Rule{
		{Tag: "not_blank", Kind: validation.ErrRequired, Message: "O título é obrigatório"},
		{Tag: "valid_utf8", Kind: validation.ErrFormat, Message: "O título contém caracteres inválidos"},
	}
	techKnowledgeRules = []validation.Rule{
		{Tag: "min=1", Kind: validation.ErrRange, Message: "O conhecimento deve estar entre 1 e 100"},
		{Tag: "max=100", Kind: validation.ErrRange, Message: "O conhecimento deve estar entre 1 e 100"},
	}
)

// Schema validates an Input for one form version.
type Schema struct {
	version Version
	checker *validation.Checker
}

func NewSchema(version Version, checker *validation.Checker) *Schema {
	if checker == nil {
		checker = validation.NewChecker(nil)
	}
	return &Schema{version: version, checker: checker}
}

func (s *Schema) Version() Version { return s.version }

// Validate checks every field independently and collects all failures.
// It returns either the transformed values or the errors, never both.
func (s *Schema) Validate(in Input) (FormValues, validation.Errors) {
	errs := validation.Errors{}
	c := s.checker

	c.Check(errs, "name", in.Name, nameRules...)
	c.Check(errs, "email", in.Email, emailRules...)
	c.Check(errs, "password", in.Password, passwordRules...)

	out := FormValues{
		Name:     CapitalizeWords(in.Name),
		Email:    in.Email,
		Password: in.Password,
	}

	if s.version.HasAvatar() {
		var fileName string
		if in.Avatar != nil {
			fileName = in.Avatar.FileName
		}
		if c.Check(errs, "avatar", fileName, avatarRules...) {
			c.Check(errs, "avatar", in.Avatar.Size, avatarSizeRules...)
		}
		out.Avatar = in.Avatar
	}

	if s.version.HasTechs() {
		c.Check(errs, "techs", in.Techs, techsRules...)
		out.Techs = make([]Tech, len(in.Techs))
		for i, entry := range in.Techs {
			knowledge := CoerceKnowledge(entry.Knowledge)
			c.Check(errs, techPath(i, "title"), entry.Title, techTitleRules...)
			c.Check(errs, techPath(i, "knowledge"), knowledge, techKnowledgeRules...)
			out.Techs[i] = Tech{Title: entry.Title, Knowledge: knowledge}
		}
	}

	if len(errs) > 0 {
		return FormValues{}, errs
	}
	return out, nil
}

// CapitalizeWords trims s, splits it on whitespace and upper-cases the first
// letter of each word, rejoining with single spaces.
func CapitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// CoerceKnowledge turns the raw knowledge text into an integer. Text that is
// not an integer coerces to 0, which the range rule then rejects.
func CoerceKnowledge(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

func techPath(i int, field string) string {
	return "techs." + strconv.Itoa(i) + "." + field
}
