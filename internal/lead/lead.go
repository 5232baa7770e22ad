// Package lead generates synthetic contact records for import load tests.
// Generation is driven by an injected math/rand/v2 source so a seed
// reproduces a file byte for byte.
package lead

import "strings"

// Header is the column row written before any lead.
var Header = []string{"name", "phone", "cpf", "email", "tags"}

// HeaderLine is Header joined the way rows are joined.
const HeaderLine = "name,phone,cpf,email,tags"

// Lead holds one generated contact.
type Lead struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	CPF   string `json:"cpf"`
	Email string `json:"email"`
	Tags  string `json:"tags"`
}

// Fields returns the lead's values in Header order.
func (l Lead) Fields() []string {
	return []string{l.Name, l.Phone, l.CPF, l.Email, l.Tags}
}

// Line joins the fields with commas. Nothing is quoted: tags are joined
// with ", " so they never look like a bare delimiter to the importer.
func (l Lead) Line() string {
	return strings.Join(l.Fields(), ",")
}

// TagList splits the tags field back into its entries.
func (l Lead) TagList() []string {
	return SplitTags(l.Tags)
}

// SplitTags splits a joined tags field. An empty field yields nil.
func SplitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, tagSeparator)
}
