package render

import (
	"fmt"
	"strings"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/library"
)

const dropzoneExamples = 3

// DocumentDropzoneLabel lists up to three formatted document types, with a
// "+N more" suffix for the rest.
func DocumentDropzoneLabel(types []string) string {
	if len(types) == 0 {
		return ""
	}
	shown := types
	if len(shown) > dropzoneExamples {
		shown = shown[:dropzoneExamples]
	}
	labels := make([]string, len(shown))
	for i, t := range shown {
		labels[i] = library.FormatDocumentType(t)
	}
	out := strings.Join(labels, ", ")
	if rest := len(types) - len(shown); rest > 0 {
		out += fmt.Sprintf(" +%d more", rest)
	}
	return out
}

// CharacterHint returns "min N, max M characters" for predefined fields and
// "" for everything else.
func CharacterHint(el builder.Element) string {
	if el.Kind != builder.KindPredefinedField {
		return ""
	}
	return fmt.Sprintf("min %d, max %d characters", el.MinLength, el.MaxLength)
}

// CategoryBadge is the badge text shown next to library-sourced elements.
func CategoryBadge(el builder.Element) string {
	switch el.Kind {
	case builder.KindPredefinedField, builder.KindDocumentUpload:
		return string(el.Category)
	default:
		return ""
	}
}
