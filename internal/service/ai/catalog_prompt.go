package ai

import (
	"fmt"
	"strings"

	"github.com/buynlarge/console/internal/model/catalog"
)

const assistantPersona = `Eres el asistente virtual de Buy n Large, una tienda de tecnología.
Responde siempre en español, de forma breve y amable.
Usa solo la información del catálogo; si algo no aparece en él, dilo y ofrece alternativas.`

// BuildSystemPrompt renders the assistant instructions followed by the
// current catalog.
func BuildSystemPrompt(products []catalog.ProductFromAPI) string {
	var b strings.Builder
	b.WriteString(assistantPersona)
	b.WriteString("\n\nCatálogo actual:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s, %s): $%s, %d unidades", p.Name, p.BrandName, p.CategoryName, p.Price, p.Stock)
		if len(p.Specifications) > 0 {
			specs := make([]string, 0, len(p.Specifications))
			for _, s := range p.Specifications {
				specs = append(specs, s.Key+": "+s.Value)
			}
			b.WriteString("; ")
			b.WriteString(strings.Join(specs, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
