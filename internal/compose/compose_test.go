package compose

import (
	"strings"
	"testing"
	"time"
)

func TestUserStoryDocument_EmptyRecord(t *testing.T) {
	for _, dialect := range []Dialect{Markdown, HTML} {
		if got := UserStoryDocument(Record{}, dialect, true); got != "" {
			t.Errorf("dialect %d: empty record rendered %q, want empty string", dialect, got)
		}
	}
}

func TestUserStoryDocument_MarkdownSections(t *testing.T) {
	rec := Record{
		Narrative:  &Narrative{Actor: "um analista", Goal: "exportar relatórios", Benefit: "ganhar tempo"},
		Impacts:    []ImpactItem{{Current: "manual", Expected: "automático"}},
		Objectives: []string{"reduzir erros"},
	}

	want := "# História do Usuário\n\n" +
		"**Como:** um analista\n\n" +
		"**Quero:** exportar relatórios\n\n" +
		"**Para:** ganhar tempo\n\n" +
		"---\n\n" +
		"## Impacto\n\n" +
		"### Impacto 1\n\n" +
		"**Processo Atual:**\nmanual\n\n" +
		"**Melhoria Esperada:**\nautomático\n\n" +
		"---\n\n" +
		"## Objetivo\n\n" +
		"- reduzir erros\n\n" +
		"---"

	if got := UserStoryDocument(rec, Markdown, true); got != want {
		t.Errorf("markdown document mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestUserStoryDocument_AcceptanceCriteriaList(t *testing.T) {
	rec := Record{AcceptanceCriteria: "- um\r\n- dois\n\n* três"}

	want := "# Critérios de Aceite\n\n- um\n- dois\n- três\n\n---"
	if got := UserStoryDocument(rec, Markdown, true); got != want {
		t.Errorf("criteria list mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestUserStoryDocument_AcceptanceCriteriaSingleLine(t *testing.T) {
	// A single line stays a paragraph and keeps its original text,
	// marker included.
	rec := Record{AcceptanceCriteria: "* item único"}

	want := "# Critérios de Aceite\n\n* item único\n\n---"
	if got := UserStoryDocument(rec, Markdown, true); got != want {
		t.Errorf("criteria paragraph mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestUserStoryDocument_AcceptanceCriteriaExcluded(t *testing.T) {
	rec := Record{AcceptanceCriteria: "- um\n- dois"}
	if got := UserStoryDocument(rec, Markdown, false); got != "" {
		t.Errorf("excluded criteria still rendered %q", got)
	}
	if got := UserStoryDocument(rec, HTML, false); got != "" {
		t.Errorf("excluded criteria still rendered %q", got)
	}
}

func TestUserStoryDocument_BusinessRuleNumberingSkipsBlanks(t *testing.T) {
	rec := Record{BusinessRules: []string{"regra um", "  ", "regra três"}}

	want := "## Regras de Negócio\n\n1. regra um\n3. regra três\n\n---"
	if got := UserStoryDocument(rec, Markdown, true); got != want {
		t.Errorf("rule numbering mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestUserStoryDocument_ScreenshotTable(t *testing.T) {
	rec := Record{Screenshots: []FileRef{{Name: "tela.png", Size: 1536, Type: "image/png"}}}

	want := "## Telas Ilustrativas\n\n" +
		"| Arquivo | Tamanho | Tipo |\n" +
		"|---------|---------|------|\n" +
		"| tela.png | 1.5 KB | image/png |\n\n" +
		"*As imagens serão anexadas a esta história.*\n\n" +
		"---"
	if got := UserStoryDocument(rec, Markdown, true); got != want {
		t.Errorf("screenshot table mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestUserStoryDocument_AttachmentsHaveNoTrailingRule(t *testing.T) {
	rec := Record{Attachments: []FileRef{{Name: "doc.pdf", Size: 1024, Type: "application/pdf"}}}

	got := UserStoryDocument(rec, Markdown, true)
	if !strings.HasSuffix(got, "*Os arquivos serão anexados a esta história.*") {
		t.Errorf("attachments section should close the document without a rule, got:\n%s", got)
	}
}

func TestUserStoryDocument_HTMLNarrative(t *testing.T) {
	rec := Record{Narrative: &Narrative{Actor: "a", Goal: "b", Benefit: "c"}}

	want := "<h1>📖 História do Usuário</h1>\n" +
		"<p><strong>Como:</strong> a</p>\n" +
		"<p><strong>Quero:</strong> b</p>\n" +
		"<p><strong>Para:</strong> c</p>\n" +
		"</br>\n<hr/>\n</br>"
	if got := UserStoryDocument(rec, HTML, true); got != want {
		t.Errorf("html narrative mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestUserStoryDocument_FieldKindLabels(t *testing.T) {
	rec := Record{FormFields: []FormField{
		{Name: "Nome", Kind: "text", Size: "80", Required: true},
		{Name: "Salvar", Kind: "button"},
		{Name: "Custom", Kind: "mystery"},
	}}

	md := UserStoryDocument(rec, Markdown, true)
	for _, row := range []string{
		"| Nome | Texto | 80 | Sim |",
		"| Salvar | button | - | Não |",
		"| Custom | mystery | - | Não |",
	} {
		if !strings.Contains(md, row) {
			t.Errorf("markdown form fields missing row %q in:\n%s", row, md)
		}
	}

	html := UserStoryDocument(rec, HTML, true)
	if !strings.Contains(html, "<tr><td>Salvar</td><td>Botão</td><td>-</td><td>Não</td></tr>") {
		t.Errorf("html form fields should translate button, got:\n%s", html)
	}
	if !strings.Contains(html, "<td>mystery</td>") {
		t.Errorf("unknown kind should pass through, got:\n%s", html)
	}
}

func TestFailureDocument_MarkdownHeader(t *testing.T) {
	f := FailureReport{
		Number:      "F-123",
		OccurredAt:  time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC),
		Environment: "Produção",
		Severity:    "critical",
	}

	want := "## 🐛 Informações da Falha\n\n" +
		"**📋 Número:** F-123\n" +
		"**📅 Ocorrência:** 07/03/2025 14:05:09\n" +
		"**🌐 Ambiente:** Produção\n" +
		"**⚠️ Severidade:** 🔴 Crítica"
	if got := FailureDocument(f, Markdown); got != want {
		t.Errorf("failure header mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFailureDocument_HTMLScenarioBecomesImpact(t *testing.T) {
	f := FailureReport{
		Environment: "Homologação",
		Severity:    "high",
		Scenarios: []Scenario{
			{Given: "o relatório trava", When: "exporto em lote", Then: "o relatório sai em segundos"},
		},
	}

	got := FailureDocument(f, HTML)
	if !strings.Contains(got, "<h3>Impacto 1</h3>") {
		t.Errorf("scenario should render as impact block, got:\n%s", got)
	}
	if !strings.Contains(got, "<p><strong>Processo Atual:</strong></p>\n<p>o relatório trava</p>") {
		t.Errorf("given clause should map to current process, got:\n%s", got)
	}
	if !strings.Contains(got, "<p><strong>Melhoria Esperada:</strong></p>\n<p>o relatório sai em segundos</p>") {
		t.Errorf("then clause should map to expected improvement, got:\n%s", got)
	}
	if strings.Contains(got, "exporto em lote") {
		t.Errorf("when clause should not appear in the html failure document, got:\n%s", got)
	}
}

func TestIssueDocument_MarkdownLabels(t *testing.T) {
	i := IssueReport{
		Type:           "improvement",
		Priority:       "",
		OccurrenceType: 2,
	}

	got := IssueDocument(i, Markdown)
	for _, fragment := range []string{
		"**📋 Tipo:** 🚀 Melhoria",
		"**⚡ Prioridade:** ❓ Não especificada",
		"**🌐 Ambiente:** Não especificado",
		"**🔧 Tipo de Ocorrência:** ⏱️ Às vezes",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("issue header missing %q in:\n%s", fragment, got)
		}
	}
}
