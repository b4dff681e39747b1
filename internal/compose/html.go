package compose

import (
	"fmt"
	"strings"
)

// The HTML dialect reproduces the fragment layout the Azure DevOps web UI
// already renders for existing items, stray "</br>" spacers included.
// Consumers parse these documents, so the layout is load-bearing.

func userStoryHTML(rec Record, includeAcceptanceCriteria bool) string {
	var b strings.Builder

	htmlNarrative(&b, rec.Narrative)
	if includeAcceptanceCriteria {
		htmlAcceptanceCriteria(&b, rec.AcceptanceCriteria)
	}
	htmlImpacts(&b, rec.Impacts)
	htmlBullets(&b, "<h1>Objetivo</h1>", rec.Objectives)
	htmlFileTable(&b, "<h1>Telas Ilustrativas</h1>", rec.Screenshots, "<p><em>As imagens serão anexadas a esta história.</em></p>", true)
	htmlFormFields(&b, rec.FormFields)
	htmlBullets(&b, "<h1>Mensagens Informativas</h1>", rec.Messages)
	htmlBusinessRules(&b, rec.BusinessRules)
	htmlScenarios(&b, rec.Scenarios)
	htmlFileTable(&b, "<h1>Anexos</h1>", rec.Attachments, "<p><em>Os arquivos serão anexados a esta história.</em></p>", false)

	return strings.TrimSpace(b.String())
}

func htmlNarrative(b *strings.Builder, n *Narrative) {
	if n == nil {
		return
	}

	b.WriteString("<h1>📖 História do Usuário</h1>\n")

	if strings.TrimSpace(n.Actor) != "" {
		fmt.Fprintf(b, "<p><strong>Como:</strong> %s</p>\n", n.Actor)
	}
	if strings.TrimSpace(n.Goal) != "" {
		fmt.Fprintf(b, "<p><strong>Quero:</strong> %s</p>\n", n.Goal)
	}
	if strings.TrimSpace(n.Benefit) != "" {
		fmt.Fprintf(b, "<p><strong>Para:</strong> %s</p>\n", n.Benefit)
	}

	b.WriteString("</br>\n<hr/>\n</br>\n")
}

func htmlAcceptanceCriteria(b *strings.Builder, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	b.WriteString("<h1>✅ Critérios de Aceite</h1>\n")

	lines := splitCriteria(text)
	if len(lines) > 1 {
		b.WriteString("<ul>\n")
		for _, line := range lines {
			fmt.Fprintf(b, "<li>%s</li>\n", line)
		}
		b.WriteString("</ul>\n")
	} else {
		fmt.Fprintf(b, "<p>%s</p>\n", text)
	}

	b.WriteString("</br>\n<hr/>\n</br>\n")
}

func htmlImpacts(b *strings.Builder, items []ImpactItem) {
	if len(items) == 0 {
		return
	}

	b.WriteString("<h1>Impacto</h1>\n</br>\n")

	for i, item := range items {
		fmt.Fprintf(b, "<h2>Impacto %d</h2>\n", i+1)

		if strings.TrimSpace(item.Current) != "" {
			b.WriteString("<p><strong>Processo Atual:</strong></p>\n")
			fmt.Fprintf(b, "<p>%s</p>\n", item.Current)
		}
		if strings.TrimSpace(item.Expected) != "" {
			b.WriteString("<p><strong>Melhoria Esperada:</strong></p>\n")
			fmt.Fprintf(b, "<p>%s</p>\n", item.Expected)
		}
		b.WriteString("</br>\n")
	}

	b.WriteString("<hr/>\n</br>\n")
}

func htmlBullets(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}

	b.WriteString(heading + "\n<ul>\n")
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			fmt.Fprintf(b, "<li>%s</li>\n", item)
		}
	}
	b.WriteString("</ul>\n</br>\n<hr/>\n</br>\n")
}

func htmlFileTable(b *strings.Builder, heading string, items []FileRef, note string, trailingRule bool) {
	if len(items) == 0 {
		return
	}

	b.WriteString(heading + "\n<table border='1'>\n")
	b.WriteString("<tr><th>Arquivo</th><th>Tamanho</th><th>Tipo</th></tr>\n")

	for _, item := range items {
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n", item.Name, FormatFileSize(item.Size), item.Type)
	}

	b.WriteString("</table>\n" + note + "\n")
	if trailingRule {
		b.WriteString("</br>\n<hr/>\n</br>\n")
	}
}

func htmlFormFields(b *strings.Builder, fields []FormField) {
	if len(fields) == 0 {
		return
	}

	b.WriteString("<h1>Campos de Preenchimento</h1>\n<table border='1'>\n")
	b.WriteString("<tr><th>Nome do Campo</th><th>Tipo</th><th>Tamanho Máximo</th><th>Obrigatório</th></tr>\n")

	for _, field := range fields {
		size := field.Size
		if strings.TrimSpace(size) == "" {
			size = "-"
		}
		required := "Não"
		if field.Required {
			required = "Sim"
		}
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n", field.Name, fieldKindLabel(field.Kind, HTML), size, required)
	}

	b.WriteString("</table>\n</br>\n<hr/>\n</br>\n")
}

func htmlBusinessRules(b *strings.Builder, rules []string) {
	if len(rules) == 0 {
		return
	}

	b.WriteString("<h1>Regras de Negócio</h1>\n<ol>\n")
	for _, rule := range rules {
		if strings.TrimSpace(rule) != "" {
			fmt.Fprintf(b, "<li>%s</li>\n", rule)
		}
	}
	b.WriteString("</ol>\n</br>\n<hr/>\n</br>\n")
}

func htmlScenarios(b *strings.Builder, scenarios []Scenario) {
	if len(scenarios) == 0 {
		return
	}

	b.WriteString("<h1>Cenários</h1>\n</br>\n")

	for i, s := range scenarios {
		fmt.Fprintf(b, "<h2>Cenário %d</h2>\n", i+1)

		if strings.TrimSpace(s.Given) != "" {
			fmt.Fprintf(b, "<p><strong>Dado que:</strong> %s</p>\n", s.Given)
		}
		if strings.TrimSpace(s.When) != "" {
			fmt.Fprintf(b, "<p><strong>Quando:</strong> %s</p>\n", s.When)
		}
		if strings.TrimSpace(s.Then) != "" {
			fmt.Fprintf(b, "<p><strong>Então:</strong> %s</p>\n", s.Then)
		}
		b.WriteString("</br>\n")
	}

	b.WriteString("<hr/>\n</br>\n")
}

func failureHTML(f FailureReport) string {
	var b strings.Builder

	b.WriteString("<h2>🐛 Informações da Falha</h2>\n")
	fmt.Fprintf(&b, "<p><strong>🌐 Ambiente:</strong> %s</p>\n", f.Environment)
	fmt.Fprintf(&b, "<p><strong>⚠️ Severidade:</strong> %s</p>\n", severityLabel(f.Severity))
	b.WriteString("<hr/>\n")

	// Failure scenarios are shown as current-vs-expected impact pairs:
	// the given clause is what happens today, the then clause what should
	// happen once the failure is fixed.
	if len(f.Scenarios) > 0 {
		b.WriteString("<h2>Impacto</h2>\n")
		for i, s := range f.Scenarios {
			fmt.Fprintf(&b, "<h3>Impacto %d</h3>\n", i+1)
			b.WriteString("<p><strong>Processo Atual:</strong></p>\n")
			fmt.Fprintf(&b, "<p>%s</p>\n", s.Given)
			b.WriteString("<p><strong>Melhoria Esperada:</strong></p>\n")
			fmt.Fprintf(&b, "<p>%s</p>\n", s.Then)
		}
		b.WriteString("<hr/>\n</br>\n")
	}

	if f.Observations != "" {
		b.WriteString("<h2>Observação</h2>\n")
		fmt.Fprintf(&b, "<p>%s</p>\n", f.Observations)
		b.WriteString("<hr/>\n</br>\n")
	}

	if len(f.Attachments) > 0 {
		b.WriteString("<h2>Evidências</h2>\n<ul>\n")
		for _, a := range f.Attachments {
			fmt.Fprintf(&b, "<li><strong>%s</strong> (%s)</li>\n", a.Name, FormatFileSize(a.Size))
		}
		b.WriteString("</ul>\n")
	}

	return strings.TrimSpace(b.String())
}

func issueHTML(i IssueReport) string {
	var b strings.Builder

	b.WriteString("<h1>🎯 Informações da Issue</h1>\n")
	fmt.Fprintf(&b, "<p><strong>📋 Tipo:</strong> %s</p>\n", issueTypeLabel(i.Type))
	fmt.Fprintf(&b, "<p><strong>⚡ Prioridade:</strong> %s</p>\n", priorityLabel(i.Priority))
	env := i.Environment
	if env == "" {
		env = "Não especificado"
	}
	fmt.Fprintf(&b, "<p><strong>🌐 Ambiente:</strong> %s</p>\n", env)
	fmt.Fprintf(&b, "<p><strong>🔧 Tipo de Ocorrência:</strong> %s</p>\n", occurrenceLabel(i.OccurrenceType))
	b.WriteString("<hr/>\n</br>\n")

	if len(i.Scenarios) > 0 {
		b.WriteString("<h1>Cenários</h1>\n")
		for n, s := range i.Scenarios {
			fmt.Fprintf(&b, "<h2>Cenário %d</h2>\n", n+1)
			if strings.TrimSpace(s.Given) != "" {
				fmt.Fprintf(&b, "<p><strong>Dado que:</strong> %s</p>\n", s.Given)
			}
			if strings.TrimSpace(s.When) != "" {
				fmt.Fprintf(&b, "<p><strong>Quando:</strong> %s</p>\n", s.When)
			}
			if strings.TrimSpace(s.Then) != "" {
				fmt.Fprintf(&b, "<p><strong>Então:</strong> %s</p>\n", s.Then)
			}
		}
		b.WriteString("</br>\n<hr/>\n</br>\n")
	}

	if i.Observations != "" {
		b.WriteString("<h1>Observações</h1>\n<ul>\n")
		fmt.Fprintf(&b, "<li>%s</li>\n", i.Observations)
		b.WriteString("</ul>\n</br>\n<hr/>\n</br>\n")
	}

	if len(i.Attachments) > 0 {
		b.WriteString("<h1>Anexos</h1>\n<ul>\n")
		for _, a := range i.Attachments {
			fmt.Fprintf(&b, "<li><strong>%s</strong> (%s)</li>\n", a.Name, FormatFileSize(a.Size))
		}
		b.WriteString("</ul>\n")
	}

	return strings.TrimSpace(b.String())
}
