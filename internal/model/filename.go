package model

import (
	"strings"
	"unicode"
)

// DefaultFileStem is used when the contact name yields nothing printable.
const DefaultFileStem = "resume"

// FileName derives the download name from the contact name: path separators,
// reserved and control characters are dropped, whitespace is collapsed and the
// result always carries a .pdf extension.
func FileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune(' ')
		case unicode.IsControl(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	stem := strings.Join(strings.Fields(b.String()), " ")
	stem = strings.Trim(stem, ". ")
	if stem == "" {
		stem = DefaultFileStem
	}
	return stem + ".pdf"
}

// FileName is the document's download name.
func (d ResumeDocument) FileName() string {
	return FileName(d.Contact.Name)
}
