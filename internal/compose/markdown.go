package compose

import (
	"fmt"
	"strings"
)

func userStoryMarkdown(rec Record, includeAcceptanceCriteria bool) string {
	var b strings.Builder

	mdNarrative(&b, rec.Narrative)
	if includeAcceptanceCriteria {
		mdAcceptanceCriteria(&b, rec.AcceptanceCriteria)
	}
	mdImpacts(&b, rec.Impacts)
	mdBullets(&b, "## Objetivo", rec.Objectives)
	mdFileTable(&b, "## Telas Ilustrativas", rec.Screenshots, "*As imagens serão anexadas a esta história.*", true)
	mdFormFields(&b, rec.FormFields)
	mdBullets(&b, "## Mensagens Informativas", rec.Messages)
	mdBusinessRules(&b, rec.BusinessRules)
	mdScenarios(&b, rec.Scenarios)
	mdFileTable(&b, "## Anexos", rec.Attachments, "*Os arquivos serão anexados a esta história.*", false)

	return strings.TrimSpace(b.String())
}

func mdNarrative(b *strings.Builder, n *Narrative) {
	if n == nil {
		return
	}

	b.WriteString("# História do Usuário\n\n")

	if strings.TrimSpace(n.Actor) != "" {
		fmt.Fprintf(b, "**Como:** %s\n\n", n.Actor)
	}
	if strings.TrimSpace(n.Goal) != "" {
		fmt.Fprintf(b, "**Quero:** %s\n\n", n.Goal)
	}
	if strings.TrimSpace(n.Benefit) != "" {
		fmt.Fprintf(b, "**Para:** %s\n\n", n.Benefit)
	}

	b.WriteString("---\n\n")
}

func mdAcceptanceCriteria(b *strings.Builder, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	b.WriteString("# Critérios de Aceite\n\n")

	lines := splitCriteria(text)
	if len(lines) > 1 {
		for _, line := range lines {
			fmt.Fprintf(b, "- %s\n", line)
		}
		b.WriteString("\n")
	} else {
		fmt.Fprintf(b, "%s\n\n", text)
	}

	b.WriteString("---\n\n")
}

func mdImpacts(b *strings.Builder, items []ImpactItem) {
	if len(items) == 0 {
		return
	}

	b.WriteString("## Impacto\n\n")

	for i, item := range items {
		fmt.Fprintf(b, "### Impacto %d\n\n", i+1)

		if strings.TrimSpace(item.Current) != "" {
			b.WriteString("**Processo Atual:**\n")
			b.WriteString(item.Current + "\n\n")
		}
		if strings.TrimSpace(item.Expected) != "" {
			b.WriteString("**Melhoria Esperada:**\n")
			b.WriteString(item.Expected + "\n\n")
		}
	}

	b.WriteString("---\n\n")
}

func mdBullets(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}

	b.WriteString(heading + "\n\n")
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			fmt.Fprintf(b, "- %s\n", item)
		}
	}
	b.WriteString("\n---\n\n")
}

func mdFileTable(b *strings.Builder, heading string, items []FileRef, note string, trailingRule bool) {
	if len(items) == 0 {
		return
	}

	b.WriteString(heading + "\n\n")
	b.WriteString("| Arquivo | Tamanho | Tipo |\n")
	b.WriteString("|---------|---------|------|\n")

	for _, item := range items {
		fmt.Fprintf(b, "| %s | %s | %s |\n", item.Name, FormatFileSize(item.Size), item.Type)
	}

	b.WriteString("\n" + note + "\n\n")
	if trailingRule {
		b.WriteString("---\n\n")
	}
}

func mdFormFields(b *strings.Builder, fields []FormField) {
	if len(fields) == 0 {
		return
	}

	b.WriteString("## Campos de Preenchimento\n\n")
	b.WriteString("| Nome do Campo | Tipo | Tamanho Máximo | Obrigatório |\n")
	b.WriteString("|---------------|------|----------------|-------------|\n")

	for _, field := range fields {
		size := field.Size
		if strings.TrimSpace(size) == "" {
			size = "-"
		}
		required := "Não"
		if field.Required {
			required = "Sim"
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", field.Name, fieldKindLabel(field.Kind, Markdown), size, required)
	}

	b.WriteString("\n---\n\n")
}

func mdBusinessRules(b *strings.Builder, rules []string) {
	if len(rules) == 0 {
		return
	}

	b.WriteString("## Regras de Negócio\n\n")
	for i, rule := range rules {
		if strings.TrimSpace(rule) != "" {
			fmt.Fprintf(b, "%d. %s\n", i+1, rule)
		}
	}
	b.WriteString("\n---\n\n")
}

func mdScenarios(b *strings.Builder, scenarios []Scenario) {
	if len(scenarios) == 0 {
		return
	}

	b.WriteString("## Cenários\n\n")

	for i, s := range scenarios {
		fmt.Fprintf(b, "### Cenário %d\n\n", i+1)

		if strings.TrimSpace(s.Given) != "" {
			fmt.Fprintf(b, "**Dado que:** %s\n\n", s.Given)
		}
		if strings.TrimSpace(s.When) != "" {
			fmt.Fprintf(b, "**Quando:** %s\n\n", s.When)
		}
		if strings.TrimSpace(s.Then) != "" {
			fmt.Fprintf(b, "**Então:** %s\n\n", s.Then)
		}
	}

	b.WriteString("---\n\n")
}

func failureMarkdown(f FailureReport) string {
	var b strings.Builder

	b.WriteString("## 🐛 Informações da Falha\n\n")
	fmt.Fprintf(&b, "**📋 Número:** %s\n", f.Number)
	fmt.Fprintf(&b, "**📅 Ocorrência:** %s\n", f.OccurredAt.Format("02/01/2006 15:04:05"))
	fmt.Fprintf(&b, "**🌐 Ambiente:** %s\n", f.Environment)
	fmt.Fprintf(&b, "**⚠️ Severidade:** %s\n\n", severityLabel(f.Severity))

	if len(f.Scenarios) > 0 {
		b.WriteString("## 🔄 Cenários da Falha\n\n")
		for i, s := range f.Scenarios {
			fmt.Fprintf(&b, "### Cenário %d\n\n", i+1)
			fmt.Fprintf(&b, "**🎯 Dado que:** %s\n\n", s.Given)
			fmt.Fprintf(&b, "**▶️ Quando:** %s\n\n", s.When)
			fmt.Fprintf(&b, "**❌ Então:** %s\n\n", s.Then)
		}
	}

	if f.Observations != "" {
		b.WriteString("## 📝 Observações Adicionais\n\n")
		b.WriteString(f.Observations + "\n\n")
	}

	if f.ReportedBy != "" {
		b.WriteString("## 👤 Informações do Relato\n\n")
		fmt.Fprintf(&b, "**Reportado por:** %s\n\n", f.ReportedBy)
	}

	return strings.TrimSpace(b.String())
}

func issueMarkdown(i IssueReport) string {
	var b strings.Builder

	b.WriteString("# 🎯 Informações da Issue\n\n")
	fmt.Fprintf(&b, "**📋 Tipo:** %s\n", issueTypeLabel(i.Type))
	fmt.Fprintf(&b, "**⚡ Prioridade:** %s\n", priorityLabel(i.Priority))
	env := i.Environment
	if env == "" {
		env = "Não especificado"
	}
	fmt.Fprintf(&b, "**🌐 Ambiente:** %s\n", env)
	fmt.Fprintf(&b, "**🔧 Tipo de Ocorrência:** %s\n\n", occurrenceLabel(i.OccurrenceType))
	b.WriteString("---\n\n")

	if len(i.Scenarios) > 0 {
		b.WriteString("# Cenários\n\n")
		for n, s := range i.Scenarios {
			fmt.Fprintf(&b, "## Cenário %d\n\n", n+1)
			if strings.TrimSpace(s.Given) != "" {
				fmt.Fprintf(&b, "**Dado que:** %s\n\n", s.Given)
			}
			if strings.TrimSpace(s.When) != "" {
				fmt.Fprintf(&b, "**Quando:** %s\n\n", s.When)
			}
			if strings.TrimSpace(s.Then) != "" {
				fmt.Fprintf(&b, "**Então:** %s\n\n", s.Then)
			}
		}
		b.WriteString("---\n\n")
	}

	if i.Observations != "" {
		b.WriteString("# Observações\n\n")
		fmt.Fprintf(&b, "- %s\n\n", i.Observations)
		b.WriteString("---\n\n")
	}

	if len(i.Attachments) > 0 {
		b.WriteString("# Anexos\n\n")
		for _, a := range i.Attachments {
			fmt.Fprintf(&b, "- **%s** (%s)\n", a.Name, FormatFileSize(a.Size))
		}
	}

	return strings.TrimSpace(b.String())
}
